package config

import "fmt"

// UnknownGroupSetError reports a group referencing a group-set that is
// not defined.
type UnknownGroupSetError struct {
	Group    string
	GroupSet string
}

func (e *UnknownGroupSetError) Error() string {
	return fmt.Sprintf("group %q references unknown group-set %q", e.Group, e.GroupSet)
}

// ProcessDefinitionError reports a process whose Path/Command fields
// don't satisfy the "exactly one of" invariant from spec.md §3.
type ProcessDefinitionError struct {
	Group   string
	Process string
	Reason  string
}

func (e *ProcessDefinitionError) Error() string {
	return fmt.Sprintf("process %s/%s: %s", e.Group, e.Process, e.Reason)
}
