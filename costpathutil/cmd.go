/*
Copyright © 2018 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package costpathutil contains the command line interface for costpath.
package costpathutil

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/costpath"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to costpath.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "destination",
			usage: `
              destination is the path to the destination raster. Every cell
              with a value greater than zero is the start of a pathway. The path
              can be a local file, an http(s) URL, or a blob storage location
              (gs://, s3://, or file://) and can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{pathwayCmd.Flags()},
		},
		{
			name: "backlink",
			usage: `
              backlink is the path to the backlink raster created by a
              cost-distance analysis. It must have the same number of rows
              and columns as the destination raster. The path can be a local
              file, an http(s) URL, or a blob storage location and can include
              environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{pathwayCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output is the path to the desired output raster location. The
              format is chosen by the file extension: '.nc', '.ncf', or '.cdf'
              for netCDF and '.asc' or '.txt' for Esri ASCII grid. It can be a
              blob storage location and can include environment variables.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{pathwayCmd.Flags()},
		},
		{
			name: "zero_background",
			usage: `
              zero_background specifies that cells that no pathway passes
              through should be set to zero rather than to NoData.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{pathwayCmd.Flags()},
		},
		{
			name: "esri_style",
			usage: `
              esri_style is an alias for zero_background.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{pathwayCmd.Flags()},
		},
		{
			name: "variable",
			usage: `
              variable is the name of the variable to read from netCDF input
              files. If it is empty, the first two-dimensional variable is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{pathwayCmd.Flags()},
		},
		{
			name: "workers",
			usage: `
              workers is the number of pathways to trace concurrently. If it
              is 0, one worker per processor is used.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{pathwayCmd.Flags()},
		},
		{
			name: "retries",
			usage: `
              retries is the maximum number of times a failed download or
              upload is retried.`,
			defaultVal: 3,
			flagsets:   []*pflag.FlagSet{pathwayCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the output file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{pathwayCmd.Flags()},
		},
		{
			name: "verbose",
			usage: `
              verbose specifies that progress and debugging messages should
              be logged.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("COSTPATH")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(pathwayCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("costpath: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "costpath",
	Short: "Map least-cost pathways through a cost surface.",
	Long: `costpath maps the least-cost pathways between destination cells and the
sources of a cost-distance analysis by following the backlink raster produced
by that analysis, and counts the number of pathways passing through each cell.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'COSTPATH_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of costpath.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("costpath v%s\n", costpath.Version)
	},
	DisableAutoGenTag: true,
}

// pathwayCmd maps the least-cost pathways from destination cells.
var pathwayCmd = &cobra.Command{
	Use:     "pathway",
	Aliases: []string{"trace"},
	Short:   "Map least-cost pathways from destination cells.",
	Long: `pathway follows the backlink raster from every destination cell to
its source and writes a raster holding the number of pathways that pass through
each cell. Backlink values are the directions of the next cell on the pathway:

    64  128   1
    32   *    2
    16   8    4

A backlink that is NoData or not greater than zero marks a source.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		destination, backlink, output, err := checkPaths(
			Cfg.GetString("destination"), Cfg.GetString("backlink"), Cfg.GetString("output"))
		if err != nil {
			return err
		}
		workers, err := cast.ToIntE(Cfg.Get("workers"))
		if err != nil {
			return fmt.Errorf("costpath: workers: %v", err)
		}
		if workers == 0 {
			workers = runtime.NumCPU()
		}
		retries, err := cast.ToIntE(Cfg.Get("retries"))
		if err != nil || retries < 0 {
			return fmt.Errorf("%w: retries must be a non-negative integer", costpath.ErrInvalidInput)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return Run(ctx, cmd,
			checkLogFile(os.ExpandEnv(Cfg.GetString("LogFile")), output),
			destination, backlink, output,
			os.ExpandEnv(Cfg.GetString("variable")),
			cast.ToBool(Cfg.Get("zero_background")) || cast.ToBool(Cfg.Get("esri_style")),
			workers, uint64(retries),
			cast.ToBool(Cfg.Get("verbose")),
		)
	},
	DisableAutoGenTag: true,
}
