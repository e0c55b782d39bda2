package ipc

import "fmt"

func errNotExecutable(name string) error {
	return fmt.Errorf("ipc: %q is not an executable file", name)
}

func errNotFoundInSearchPath(name string) error {
	return fmt.Errorf("ipc: %q not found in search path", name)
}

func errChildrenSurvived(n int) error {
	return fmt.Errorf("ipc: %d children survived ensure_all_killed", n)
}
