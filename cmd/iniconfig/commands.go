// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yourbase/iniconfig/configstore"
	"github.com/yourbase/iniconfig/envvar"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	path   string
	strict bool
}

// open loads the store named by the flags. A file that exists but cannot be
// used is an error here: the CLI would otherwise overwrite it on the next set.
func (g *globalFlags) open(cmd *cobra.Command) (*configstore.Store, error) {
	s, result := configstore.Load(cmd.Context(), g.path, &configstore.Options{Strict: g.strict})
	if !result.OK() {
		return nil, result.Err
	}
	return s, nil
}

func newRootCmd() *cobra.Command {
	g := new(globalFlags)
	root := &cobra.Command{
		Use:   "iniconfig",
		Short: "Read and edit sectioned INI configuration files",
		Long: `iniconfig reads and edits a sectioned INI configuration file.

The file defaults to $` + envvar.PathVar + ` or ` + envvar.DefaultPath + `.
A missing file is treated as empty and created on the first change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.path, "file", "f", envvar.ConfigPath(), "configuration `path`")
	root.PersistentFlags().BoolVar(&g.strict, "strict", envvar.Strict(), "reject repeated sections and keys")

	root.AddCommand(
		newGetCmd(g),
		newSetCmd(g),
		newUnsetCmd(g),
		newRemoveSectionCmd(g),
		newSectionsCmd(g),
		newDumpCmd(g),
	)
	return root
}

func newGetCmd(g *globalFlags) *cobra.Command {
	var defaultValue string
	cmd := &cobra.Command{
		Use:   "get SECTION KEY",
		Short: "Print a value",
		Long: `Print the value of KEY in SECTION.

If the key is missing, --default is printed instead. Without --default a
missing key is an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			v, ok := s.Lookup(args[0], args[1])
			if !ok {
				if !cmd.Flags().Changed("default") {
					return fmt.Errorf("[%s]%s not set", args[0], args[1])
				}
				v = defaultValue
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().StringVar(&defaultValue, "default", "", "value to print if the key is missing")
	return cmd
}

func newSetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set SECTION KEY VALUE",
		Short: "Add or update a value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			if err := s.Set(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return err
			}
			return s.Save(cmd.Context())
		},
	}
}

func newUnsetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "unset SECTION KEY",
		Short: "Remove a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			if !s.RemoveKey(cmd.Context(), args[0], args[1]) {
				return fmt.Errorf("[%s]%s not set", args[0], args[1])
			}
			return s.Save(cmd.Context())
		},
	}
}

func newRemoveSectionCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-section SECTION",
		Short: "Remove a section and all of its keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			if !s.RemoveSection(cmd.Context(), args[0]) {
				return fmt.Errorf("no section [%s]", args[0])
			}
			return s.Save(cmd.Context())
		},
	}
}

func newSectionsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List section names in file order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			for _, name := range s.Sections() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newDumpCmd(g *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the whole configuration",
		Long: `Print the whole configuration in one of the formats: ` + strings.Join(dumpFormats, ", ") + `.

Only the ini format keeps comments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, ok := encoders[format]
			if !ok {
				return errors.New("unknown format " + format + " (want one of " + strings.Join(dumpFormats, ", ") + ")")
			}
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			return enc(cmd.Context(), cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVar(&format, "format", "ini", "output `format`")
	return cmd
}
