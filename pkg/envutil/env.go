package envutil

import "github.com/drone/envsubst"

// Expand substitutes environment variables in configuration values.
func Expand(s string) string {
	val, _ := envsubst.EvalEnv(s)
	return val
}
