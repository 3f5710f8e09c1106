package config

import "flag"

type flagValues struct {
	configPath string
	dbPath     string
}

// parseFlags reads the command-line flags captlog understands:
//
//	-c string   path to a JSON config file
//	-d string   path to the store database file
func parseFlags(args []string) (flagValues, error) {
	var fv flagValues

	fs := flag.NewFlagSet("captlog", flag.ContinueOnError)
	fs.StringVar(&fv.configPath, "c", "", "path to a JSON config file")
	fs.StringVar(&fv.dbPath, "d", "", "path to the store database file")

	if err := fs.Parse(args); err != nil {
		return flagValues{}, err
	}
	return fv, nil
}
