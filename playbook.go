package scapolite

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultHosts is the inventory group every generated play targets
	DefaultHosts = "windows"
	// RegistryRoot prefixes every registry path found in rule automations
	RegistryRoot = `HKLM:\`
)

// Play is one batch of generated tasks for a single rule document
// Field order defines output order, ansible is picky about readability
type Play struct {
	Hosts       string `yaml:"hosts"`
	GatherFacts bool   `yaml:"gather_facts"`
	Tasks       []Task `yaml:"tasks"`
}

// Task sets a single named registry value on the target hosts
type Task struct {
	Name    string  `yaml:"name"`
	RegEdit RegEdit `yaml:"ansible.windows.win_regedit"`
}

// RegEdit holds the argument block for the win_regedit ansible module
type RegEdit struct {
	Path string      `yaml:"path"`
	Name string      `yaml:"name"`
	Data interface{} `yaml:"data"`
	Type string      `yaml:"type"`
}

// MapToPlay projects the registry automations of one rule document into a
// play. The scapolite block is merged first, then every automation under
// implementations contributes one task per values entry, in document order.
// Broken automations are skipped with a warning rather than failing the
// document. A play with no tasks is still returned, the caller is expected
// to discard it. Task names use Go default formatting for the value, so
// booleans read "true"/"false" and non-scalar values print their Go form.
func MapToPlay(m Mapping, logger logrus.FieldLogger) Play {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	rule := MergeRule(m)
	play := Play{
		Hosts:       DefaultHosts,
		GatherFacts: false,
		Tasks:       make([]Task, 0),
	}
	for _, impl := range sequence(rule, "implementations") {
		entry, ok := impl.(Mapping)
		if !ok {
			continue
		}
		for _, a := range sequence(entry, "automations") {
			automation, ok := a.(Mapping)
			if !ok {
				continue
			}
			play.Tasks = append(play.Tasks, automationTasks(automation, logger)...)
		}
	}
	if len(play.Tasks) == 0 {
		logger.Error("no valid automation data found, no tasks were generated")
	}
	return play
}

// automationTasks expands one registry automation into tasks, one per value
func automationTasks(automation Mapping, logger logrus.FieldLogger) []Task {
	v, _ := value(automation, "registry_key")
	key, ok := v.(string)
	if !ok || key == "" {
		logger.Warn("no registry_key found in automation; skipping this automation")
		return nil
	}
	v, _ = value(automation, "values")
	values, ok := v.(Mapping)
	if !ok || len(values) == 0 {
		logger.Warn("no values found in automation; skipping this automation")
		return nil
	}
	tasks := make([]Task, 0, len(values))
	for _, item := range values {
		tasks = append(tasks, Task{
			Name: fmt.Sprintf("Set %v to %v", item.Key, item.Value),
			RegEdit: RegEdit{
				Path: RegistryRoot + key,
				Name: fmt.Sprintf("%v", item.Key),
				Data: item.Value,
				Type: registryType(item.Value),
			},
		})
	}
	return tasks
}

// registryType maps a yaml scalar kind to a win_regedit value type
// yaml.v2 hands integers back as int, int64 or uint64 depending on magnitude
func registryType(v interface{}) string {
	switch v.(type) {
	case int, int64, uint64:
		return "dword"
	default:
		return "string"
	}
}
