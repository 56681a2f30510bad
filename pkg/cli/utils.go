package cli

import "github.com/urfave/cli/v3"

// joinFlags flattens per-config flag slices into one command flag list
func joinFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}
