package globalreg

import "fmt"

func errUnknownName(name string) error {
	return fmt.Errorf("globalreg: no such name %q", name)
}

func errNoValue(name string) error {
	return fmt.Errorf("globalreg: name %q registered but has no value", name)
}
