package phy

import "fmt"

func errDuplicatePhyName(name string) error {
	return fmt.Errorf("phy: name %q already registered", name)
}
