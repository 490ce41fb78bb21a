// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/yourbase/iniconfig/configstore"
	"gopkg.in/yaml.v3"
)

type encoder func(ctx context.Context, w io.Writer, s *configstore.Store) error

var encoders = map[string]encoder{
	"ini":  encodeINI,
	"json": encodeJSON,
	"yaml": encodeYAML,
	"toml": encodeTOML,
}

// dumpFormats lists the keys of encoders for help text.
var dumpFormats = []string{"ini", "json", "yaml", "toml"}

func encodeINI(ctx context.Context, w io.Writer, s *configstore.Store) error {
	text, err := s.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

// sectionMaps converts the store into nested maps. Key order is lost.
func sectionMaps(ctx context.Context, s *configstore.Store) map[string]map[string]string {
	m := make(map[string]map[string]string)
	for _, name := range s.Sections() {
		m[name] = s.Section(ctx, name).Map()
	}
	return m
}

func encodeJSON(ctx context.Context, w io.Writer, s *configstore.Store) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sectionMaps(ctx, s))
}

func encodeTOML(ctx context.Context, w io.Writer, s *configstore.Store) error {
	return toml.NewEncoder(w).Encode(sectionMaps(ctx, s))
}

// encodeYAML builds the document node by node so that sections and keys keep
// their file order.
func encodeYAML(ctx context.Context, w io.Writer, s *configstore.Store) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range s.Sections() {
		props := &yaml.Node{Kind: yaml.MappingNode}
		for _, prop := range s.Section(ctx, name) {
			props.Content = append(props.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: prop.Key},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: prop.Value},
			)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			props,
		)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
