/*
Copyright 2019 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package status implements the line-oriented status-file codec: the
// external I/O layer's wire format and the bytes the signature hasher
// consumes.
package status

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"sigs.k8s.io/lcfg-core/internal/component"
	"sigs.k8s.io/lcfg-core/internal/compset"
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/reslist"
	"sigs.k8s.io/lcfg-core/internal/resource"
)

// symbolAttr maps a status-line type symbol to the Resource attribute it
// sets. The empty symbol denotes the plain value line.
var symbolAttr = map[string]resource.Attribute{
	"":  resource.AttrValue,
	"t": resource.AttrType,
	"c": resource.AttrContext,
	"o": resource.AttrComment,
	"d": resource.AttrDerivation,
	"p": resource.AttrPriority,
}

// Line is one parsed status-file record.
type Line struct {
	Host      string
	Component string
	Resource  string
	Symbol    string
	Value     string
}

// ParseLine parses a single status-file line, per the grammar
// `key '=' value`, where `key := [host '/'] [component '.'] resource
// [type_symbol]`. lineNo is carried only for error messages.
func ParseLine(line string, lineNo int) (Line, error) {
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return Line{}, xerrors.Errorf("line %d: missing '=': %w", lineNo, lcfgerr.ErrInvalidValue)
	}
	key := line[:eq]
	value := resource.Unescape(line[eq+1:])

	var l Line
	l.Value = value

	if slash := strings.IndexByte(key, '/'); slash >= 0 {
		l.Host = key[:slash]
		key = key[slash+1:]
	}

	if pct := strings.IndexByte(key, '%'); pct >= 0 {
		l.Symbol = key[pct+1:]
		key = key[:pct]
	}

	if dot := strings.LastIndexByte(key, '.'); dot >= 0 {
		l.Component = key[:dot]
		l.Resource = key[dot+1:]
	} else {
		l.Resource = key
	}

	if l.Resource == "" {
		return Line{}, xerrors.Errorf("line %d: empty resource name: %w", lineNo, lcfgerr.ErrInvalidValue)
	}
	return l, nil
}

// Write renders a Line back to wire form, applying the same escaping
// ParseLine reverses.
func (l Line) Write() string {
	var b strings.Builder
	if l.Host != "" {
		b.WriteString(l.Host)
		b.WriteByte('/')
	}
	if l.Component != "" {
		b.WriteString(l.Component)
		b.WriteByte('.')
	}
	b.WriteString(l.Resource)
	if l.Symbol != "" {
		b.WriteByte('%')
		b.WriteString(l.Symbol)
	}
	b.WriteByte('=')
	b.WriteString(resource.Escape(l.Value))
	b.WriteByte('\n')
	return b.String()
}

// ReadInto parses a status-stream's lines, in order, applying each to the
// named component/resource within set, creating components and
// ResourceLists on demand with the given default merge rules and primary
// key. Lines referencing an unrecognized type symbol are skipped, logging
// a warning, rather than aborting the whole stream.
func ReadInto(r *bufio.Scanner, set *compset.ComponentSet, rules reslist.Rule, key reslist.PrimaryKey) error {
	lineNo := 0
	for r.Scan() {
		lineNo++
		text := r.Text()
		if text == "" {
			continue
		}
		ln, err := ParseLine(text, lineNo)
		if err != nil {
			return err
		}
		attr, ok := symbolAttr[ln.Symbol]
		if !ok {
			logrus.Warnf("status line %d: ignoring unknown type symbol %q", lineNo, ln.Symbol)
			continue
		}

		compName := ln.Component
		if compName == "" {
			compName = "profile"
		}
		comp := set.Get(compName)
		if comp == nil {
			comp = component.New(compName)
			set.Put(compName, comp)
		}
		list := comp.Get(ln.Resource)
		var res *resource.Resource
		if list != nil && list.Len() > 0 {
			res = list.Head().Clone()
		} else {
			res, err = resource.New(ln.Resource)
			if err != nil {
				return xerrors.Errorf("line %d: %w", lineNo, err)
			}
		}
		if err := res.SetAttribute(attr, ln.Value); err != nil {
			return xerrors.Errorf("line %d: %w", lineNo, err)
		}
		if _, err := comp.MergeResource(ln.Resource, rules, key, res); err != nil {
			return xerrors.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := r.Err(); err != nil {
		return xerrors.Errorf("reading status stream: %w: %v", lcfgerr.ErrIO, err)
	}
	return nil
}

// ReadFile parses a single status file into set.
func ReadFile(path string, set *compset.ComponentSet, rules reslist.Rule, key reslist.PrimaryKey) error {
	f, err := os.Open(path)
	if err != nil {
		return xerrors.Errorf("opening status file %q: %w", path, lcfgerr.ErrIO)
	}
	defer f.Close()
	return ReadInto(bufio.NewScanner(f), set, rules, key)
}

// ReadDir walks dir, parsing every regular file it finds into set.
// Per-file errors are logged and skipped so that one malformed file does
// not abort the whole directory.
func ReadDir(dir string, set *compset.ComponentSet, rules reslist.Rule, key reslist.PrimaryKey) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return xerrors.Errorf("walking %q: %w", path, lcfgerr.ErrIO)
		}
		if info.IsDir() {
			return nil
		}
		if ferr := ReadFile(path, set, rules, key); ferr != nil {
			logrus.Warnf("skipping status file %q: %v", path, ferr)
		}
		return nil
	})
}

// WriteFile renders every component of set, in sorted order, as status
// lines and writes them to path.
func WriteFile(path string, set *compset.ComponentSet, opt resource.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Errorf("creating status file %q: %w", path, lcfgerr.ErrIO)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, name := range set.Names() {
		comp := set.Get(name)
		if err := comp.HashInto(w, opt); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return xerrors.Errorf("flushing status file %q: %w", path, lcfgerr.ErrIO)
	}
	return nil
}

// FormatPriority renders a priority for use directly in a %p line, in the
// same decimal form Resource.ToStatus writes.
func FormatPriority(p int32) string {
	return strconv.FormatInt(int64(p), 10)
}
