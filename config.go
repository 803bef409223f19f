package blockmap

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InfoUpdateID is the legacy id of minecraft:info_update, the block that
// unresolvable legacy lookups fall back to by default.
const InfoUpdateID = 248

// Config holds the options used to build a Table. The zero value is ready to use.
type Config struct {
	// Placeholder is the legacy block id returned for lookups that match no
	// registered state. It must be registered with meta 0. Zero selects
	// InfoUpdateID, so legacy id 0 (minecraft:air) cannot be the placeholder.
	Placeholder uint32
	// Seed returns the seed of the palette permutation. Tables built with the
	// same seed assign identical runtime ids. If nil, the process id is used, so
	// that every worker of one process agrees without coordination.
	Seed func() uint64
	// Log is the logger the table reports to. If nil, the logrus standard
	// logger is used.
	Log logrus.FieldLogger
}

// withDefaults returns a copy of conf with all unset fields filled in.
func (conf Config) withDefaults() Config {
	if conf.Placeholder == 0 {
		conf.Placeholder = InfoUpdateID
	}
	if conf.Seed == nil {
		conf.Seed = ProcessSeed
	}
	if conf.Log == nil {
		conf.Log = logrus.StandardLogger()
	}
	return conf
}

// ProcessSeed returns the operating system id of the current process as a
// permutation seed. It is not secret and not meant to be.
func ProcessSeed() uint64 {
	pid := os.Getpid()
	if pid < 0 {
		return 0
	}
	return uint64(pid)
}
