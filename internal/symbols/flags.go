package symbols

import (
	"fmt"
	"strings"
)

// ModuleFlag is a module-level behaviour toggle. The binder only carries
// flags through for later compiler stages.
type ModuleFlag uint

const (
	CheckedDicts ModuleFlag = 1 << iota
	ShadowFrame
	CheckedLists
)

var flagNames = []struct {
	flag ModuleFlag
	name string
}{
	{CheckedDicts, "checked_dicts"},
	{ShadowFrame, "shadow_frame"},
	{CheckedLists, "checked_lists"},
}

func (f ModuleFlag) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseModuleFlag maps a configuration name to its flag.
func ParseModuleFlag(name string) (ModuleFlag, error) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown module flag %q", name)
}

func (t *ModuleTable) HasFlag(f ModuleFlag) bool { return t.flags&f == f }
func (t *ModuleTable) SetFlag(f ModuleFlag)      { t.flags |= f }

// Flags returns the set flags in declaration order.
func (t *ModuleTable) Flags() []ModuleFlag {
	var out []ModuleFlag
	for _, fn := range flagNames {
		if t.flags&fn.flag != 0 {
			out = append(out, fn.flag)
		}
	}
	return out
}
