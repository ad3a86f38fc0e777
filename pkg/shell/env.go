package shell

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// environ builds the child environment. Without [WithInheritedEnv], only PATH
// and TMPDIR pass through from the parent; caller-supplied variables win over
// inherited ones (os/exec uses the last occurrence of a duplicate key).
func (c *Command) environ() []string {
	var env []string

	if c.inheritEnv {
		env = os.Environ()
	} else {
		for _, k := range []string{"PATH", "TMPDIR"} {
			if v, ok := os.LookupEnv(k); ok {
				env = append(env, k+"="+v)
			}
		}
	}

	keys := make([]string, 0, len(c.env))
	for k := range c.env {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, k+"="+c.env[k])
	}

	return env
}

// ensureTempDir creates the directory TMPDIR points at when it does not
// exist, returning a cleanup that removes it again. Mirrors how a
// caller-supplied TMPDIR is materialized for the child and discarded after
// the run.
func ensureTempDir(env []string) (func(), error) {
	tmpDir := ""

	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, "TMPDIR="); ok {
			tmpDir = v
		}
	}

	if tmpDir == "" {
		return func() {}, nil
	}

	if _, err := os.Stat(tmpDir); err == nil {
		return func() {}, nil
	}

	err := os.MkdirAll(tmpDir, 0o700)
	if err != nil {
		return nil, fmt.Errorf("failed to create TMPDIR %q: %w", tmpDir, err)
	}

	return func() {
		// Only removed when empty, matching a cautious rmdir.
		_ = os.Remove(tmpDir)
	}, nil
}
