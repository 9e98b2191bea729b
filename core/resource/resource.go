// Package resource holds the admin routing table and the navigation intents emitted by screens.
package resource

import (
	_ "embed"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed resources.yaml
	defaultTable []byte

	ErrUnknownResource    = errors.New("unknown resource")
	ErrUnsupportedAction  = errors.New("action not supported by resource")
	ErrMissingRecordID    = errors.New("record id required")
	ErrDuplicatedResource = errors.New("resource declared twice")
)

type Action string

const (
	List   Action = "list"
	Create Action = "create"
	Show   Action = "show"
)

// Intent is an opaque navigation request, resolved to a path by the routing table.
type Intent struct {
	Action   Action `json:"action"`
	Resource string `json:"resource"`
	ID       string `json:"id,omitempty"`
}

func ListIntent(res string) Intent   { return Intent{Action: List, Resource: res} }
func CreateIntent(res string) Intent { return Intent{Action: Create, Resource: res} }

func ShowIntent(res, id string) Intent {
	return Intent{Action: Show, Resource: res, ID: id}
}

type Resource struct {
	Name   string `yaml:"name" json:"name"`
	Label  string `yaml:"label" json:"label"`
	Icon   string `yaml:"icon" json:"icon,omitempty"`
	List   string `yaml:"list" json:"list,omitempty"`
	Create string `yaml:"create" json:"create,omitempty"`
	Show   string `yaml:"show" json:"show,omitempty"` // may contain the ":id" placeholder
}

// Operations lists the actions the resource declares a path for.
func (r Resource) Operations() []Action {
	ops := make([]Action, 0, 3)
	if r.List != "" {
		ops = append(ops, List)
	}
	if r.Create != "" {
		ops = append(ops, Create)
	}
	if r.Show != "" {
		ops = append(ops, Show)
	}
	return ops
}

func (r Resource) path(act Action) string {
	switch act {
	case List:
		return r.List
	case Create:
		return r.Create
	case Show:
		return r.Show
	}
	return ""
}

// Table maps resource names to their operations and paths.
type Table struct {
	resources []Resource
	byName    map[string]Resource
}

// Load parses a YAML list of resources.
func Load(data []byte) (*Table, error) {
	var resources []Resource
	if err := yaml.Unmarshal(data, &resources); err != nil {
		return nil, errors.Wrap(err, "parsing resources")
	}

	tbl := &Table{
		resources: resources,
		byName:    make(map[string]Resource, len(resources)),
	}
	for _, res := range resources {
		if res.Name == "" {
			return nil, errors.Wrap(ErrUnknownResource, "resource without name")
		}
		if _, ok := tbl.byName[res.Name]; ok {
			return nil, errors.Wrap(ErrDuplicatedResource, res.Name)
		}
		tbl.byName[res.Name] = res
	}
	return tbl, nil
}

// Default returns the embedded admin routing table.
func Default() *Table {
	tbl, err := Load(defaultTable)
	if err != nil {
		panic(err)
	}
	return tbl
}

func (t *Table) Resources() []Resource {
	out := make([]Resource, len(t.resources))
	copy(out, t.resources)
	return out
}

func (t *Table) Lookup(name string) (Resource, bool) {
	res, ok := t.byName[name]
	return res, ok
}

// Resolve turns an intent into the path of the requested screen.
func (t *Table) Resolve(in Intent) (string, error) {
	res, ok := t.byName[in.Resource]
	if !ok {
		return "", errors.Wrap(ErrUnknownResource, in.Resource)
	}
	path := res.path(in.Action)
	if path == "" {
		return "", errors.Wrapf(ErrUnsupportedAction, "%s %s", in.Action, in.Resource)
	}
	if strings.Contains(path, ":id") {
		if in.ID == "" {
			return "", errors.Wrapf(ErrMissingRecordID, "%s %s", in.Action, in.Resource)
		}
		path = strings.ReplaceAll(path, ":id", url.PathEscape(in.ID))
	}
	return path, nil
}
