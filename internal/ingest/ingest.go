package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/san-kum/orbsim/internal/orbit"
)

const (
	tableKey = "solarsystem"
	countKey = "number_of_bodies"
)

// File is a parsed element table. Bodies are keyed by display name.
type File struct {
	Path           string
	NumberOfBodies int
	Bodies         map[string]Record
}

var title = cases.Title(language.English)

// displayName restores the capitalization viper drops from table keys.
func displayName(key string, r Record) string {
	if r.Name != "" {
		return r.Name
	}
	return title.String(key)
}

// Load reads an element table. The format follows the file extension: TOML,
// YAML and JSON are accepted.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("ingest: read %s: %w", path, err)
	}

	if !v.IsSet(tableKey) {
		return nil, &ConfigError{File: path, Msg: "no SolarSystem table"}
	}
	var raw map[string]Record
	if err := v.UnmarshalKey(tableKey, &raw); err != nil {
		return nil, &ConfigError{File: path, Msg: "decode SolarSystem table", Err: err}
	}
	if len(raw) == 0 {
		return nil, &ConfigError{File: path, Msg: "SolarSystem table is empty"}
	}

	f := &File{Path: path, Bodies: make(map[string]Record, len(raw))}
	for key, r := range raw {
		name := displayName(key, r)
		if _, dup := f.Bodies[name]; dup {
			return nil, &ConfigError{File: path, Body: name, Msg: "duplicate body"}
		}
		moons := make(map[string]Record, len(r.Moons))
		for mkey, m := range r.Moons {
			moons[displayName(mkey, m)] = m
		}
		r.Moons = moons
		f.Bodies[name] = r
	}

	if v.IsSet(countKey) {
		f.NumberOfBodies = v.GetInt(countKey)
		if f.NumberOfBodies != len(f.Bodies) {
			return nil, &ConfigError{
				File:  path,
				Field: countKey,
				Msg:   fmt.Sprintf("declares %d bodies, table has %d", f.NumberOfBodies, len(f.Bodies)),
			}
		}
	} else {
		f.NumberOfBodies = len(f.Bodies)
	}
	return f, nil
}

// Names returns the top-level body names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Bodies))
	for name := range f.Bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves a filter against the table, case-insensitively. An empty
// filter selects every body.
func (f *File) Select(filter []string) ([]string, error) {
	if len(filter) == 0 {
		return f.Names(), nil
	}
	byFold := make(map[string]string, len(f.Bodies))
	for name := range f.Bodies {
		byFold[strings.ToLower(name)] = name
	}
	seen := make(map[string]bool, len(filter))
	out := make([]string, 0, len(filter))
	for _, want := range filter {
		name, ok := byFold[strings.ToLower(strings.TrimSpace(want))]
		if !ok {
			return nil, &ConfigError{File: f.Path, Body: want, Err: orbit.ErrUnknownBody}
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Build turns the selected records into an uninitialized body hierarchy.
func Build(f *File, filter []string, opts ...orbit.Option) (*orbit.System, error) {
	names, err := f.Select(filter)
	if err != nil {
		return nil, err
	}

	sys := orbit.NewSystem(opts...)
	for _, name := range names {
		r := f.Bodies[name]
		planet, err := newBody(f.Path, name, orbit.Planet, r)
		if err != nil {
			return nil, err
		}

		moonNames := make([]string, 0, len(r.Moons))
		for mname := range r.Moons {
			moonNames = append(moonNames, mname)
		}
		sort.Strings(moonNames)
		for _, mname := range moonNames {
			if len(r.Moons[mname].Moons) > 0 {
				return nil, &ConfigError{File: f.Path, Body: name + "/" + mname, Field: "moons", Msg: "satellites cannot own moons"}
			}
			moon, err := newBody(f.Path, name+"/"+mname, orbit.Satellite, r.Moons[mname])
			if err != nil {
				return nil, err
			}
			if err := planet.AddMoon(moon); err != nil {
				return nil, &ConfigError{File: f.Path, Body: name + "/" + mname, Err: err}
			}
		}

		if err := sys.Add(planet); err != nil {
			return nil, &ConfigError{File: f.Path, Body: name, Err: err}
		}
	}
	return sys, nil
}

func newBody(file, path string, kind orbit.Kind, r Record) (*orbit.Body, error) {
	el, err := r.Elements(file, path)
	if err != nil {
		return nil, err
	}
	name := path
	if _, moon, ok := strings.Cut(path, "/"); ok {
		name = moon
	}
	b, err := orbit.NewBody(name, kind, el, r.RadiusKm())
	if err != nil {
		return nil, &ConfigError{File: file, Body: path, Err: err}
	}
	return b, nil
}

// LoadSystem loads path and builds the filtered system, logging through logger.
func LoadSystem(path string, filter []string, logger *slog.Logger) (*orbit.System, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	f, err := Load(path)
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			logger.Error("invalid body data", "file", path, "body", ce.Body, "field", ce.Field, "error", err)
		}
		return nil, err
	}
	sys, err := Build(f, filter, orbit.WithLogger(logger))
	if err != nil {
		logger.Error("building system failed", "file", path, "error", err)
		return nil, err
	}

	moons := 0
	for _, b := range sys.Bodies() {
		if b.Kind() == orbit.Satellite {
			moons++
		}
	}
	logger.Info("bodies loaded", "file", path, "planets", sys.Count(), "moons", moons, "declared", f.NumberOfBodies)
	return sys, nil
}
