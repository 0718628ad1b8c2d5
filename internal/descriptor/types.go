package descriptor

import "fmt"

// Descriptor is one plugin read from a descriptor file.
type Descriptor struct {
	Name         string   `yaml:"name" json:"name"`
	Command      string   `yaml:"command" json:"command"`
	ShortHelp    string   `yaml:"short_help" json:"short_help"`
	Requires     []string `yaml:"requires" json:"requires"`
	RunDetached  bool     `yaml:"run_detached" json:"run_detached"`
	InheritsFrom string   `yaml:"inherits_from,omitempty" json:"inherits_from,omitempty"`
	// SourcePath is the file the descriptor came from.
	SourcePath string `yaml:"-" json:"source_path"`
}

// ReservedNames are the control flags every plugin command accepts; a
// plugin may not take one as its name.
var ReservedNames = []string{"help", "print", "ignore-cmd", "run-detached"}

// ShortHelpText returns the short help, or a generic line naming the plugin.
func (d *Descriptor) ShortHelpText() string {
	if d.ShortHelp != "" {
		return d.ShortHelp
	}
	return fmt.Sprintf("A rez plugin - %s.", d.Name)
}

// IsReserved reports whether name is a reserved control-flag name.
func IsReserved(name string) bool {
	for _, r := range ReservedNames {
		if name == r {
			return true
		}
	}
	return false
}
