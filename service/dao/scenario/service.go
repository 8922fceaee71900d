package scenario

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/kernelsim/internal/yml"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/service/dao/scenario/address"
	"gopkg.in/yaml.v3"
)

// Service loads simulation scenarios from JSON or YAML documents
type Service struct {
	fs     afs.Service
	config Config
}

// Config returns the defaults in effect
func (s *Service) Config() Config {
	return s.config
}

// Load loads a scenario from the specified URL
func (s *Service) Load(ctx context.Context, URL string) (*model.Scenario, error) {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario from %s: %w", URL, err)
	}
	return s.Decode(URL, data)
}

// Decode decodes a scenario from a JSON or YAML document
func (s *Service) Decode(URL string, data []byte) (*model.Scenario, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScenario, URL, err)
	}
	return s.Parse(URL, &node)
}

// Parse converts a decoded document into a validated scenario
func (s *Service) Parse(URL string, node *yaml.Node) (*model.Scenario, error) {
	scenario := &model.Scenario{
		Source:       &model.Source{URL: URL},
		MemorySizeMB: s.config.DefaultMemorySizeMB,
	}
	if err := s.parseScenario((*yml.Node)(node).Root(), scenario); err != nil {
		return nil, err
	}
	if issues := scenario.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, issues[0])
	}
	return scenario, nil
}

func (s *Service) parseScenario(root *yml.Node, scenario *model.Scenario) error {
	if root.Kind != yaml.MappingNode {
		return invalid("$", fmt.Errorf("expected mapping"))
	}
	err := root.Pairs(func(key string, node *yml.Node) error {
		var err error
		switch key {
		case "scheduling_algorithm":
			if scenario.Algorithm, err = node.String(); err != nil {
				return invalid(key, err)
			}
		case "memory_size_MB":
			if scenario.MemorySizeMB, err = node.Int(); err != nil {
				return invalid(key, err)
			}
		case "semaphores":
			return parseSequence(node, key, func(path string, item *yml.Node) error {
				semaphore := &model.Semaphore{}
				if err := requireInt(item, path, "id", &semaphore.ID); err != nil {
					return err
				}
				if err := requireInt(item, path, "init_val", &semaphore.InitVal); err != nil {
					return err
				}
				scenario.Semaphores = append(scenario.Semaphores, semaphore)
				return nil
			})
		case "mutexes":
			return parseSequence(node, key, func(path string, item *yml.Node) error {
				id, err := item.Int()
				if err != nil {
					return invalid(path, err)
				}
				scenario.Mutexes = append(scenario.Mutexes, id)
				return nil
			})
		case "processes":
			scenario.Processes = []*model.Process{}
			return parseSequence(node, key, func(path string, item *yml.Node) error {
				process, err := s.parseProcess(path, item)
				if err != nil {
					return err
				}
				scenario.Processes = append(scenario.Processes, process)
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	if root.Lookup("scheduling_algorithm") == nil {
		return invalid("scheduling_algorithm", fmt.Errorf("required"))
	}
	if root.Lookup("processes") == nil {
		return invalid("processes", fmt.Errorf("required"))
	}
	return nil
}

func (s *Service) parseProcess(path string, node *yml.Node) (*model.Process, error) {
	if node.Kind != yaml.MappingNode {
		return nil, invalid(path, fmt.Errorf("expected mapping"))
	}
	process := &model.Process{
		Priority:       s.config.DefaultPriority,
		NeededMemoryMB: s.config.DefaultMemoryMB,
	}
	if err := requireInt(node, path, "arrival", &process.Arrival); err != nil {
		return nil, err
	}
	if err := requireInt(node, path, "total_cpu_time", &process.TotalCPUTime); err != nil {
		return nil, err
	}
	err := node.Pairs(func(key string, value *yml.Node) error {
		field := path + "." + key
		var err error
		switch key {
		case "priority":
			if process.Priority, err = value.Int(); err != nil {
				return invalid(field, err)
			}
		case "needed_memory_MB":
			if process.NeededMemoryMB, err = value.Int(); err != nil {
				return invalid(field, err)
			}
		case "type":
			if process.Type, err = value.String(); err != nil {
				return invalid(field, err)
			}
		case "priority_change":
			return parseSequence(value, field, func(itemPath string, item *yml.Node) error {
				change := &model.PriorityChange{}
				if err := requireInt(item, itemPath, "arrival", &change.Arrival); err != nil {
					return err
				}
				if err := requireInt(item, itemPath, "new_priority", &change.NewPriority); err != nil {
					return err
				}
				process.PriorityChanges = append(process.PriorityChanges, change)
				return nil
			})
		case "semaphore":
			return parseSequence(value, field, func(itemPath string, item *yml.Node) error {
				call := &model.SemaphoreCall{}
				op, err := parseCall(item, itemPath, &call.ID, &call.At, string(model.OpP), string(model.OpV))
				if err != nil {
					return err
				}
				call.Op = model.SemaphoreOp(op)
				process.Semaphore = append(process.Semaphore, call)
				return nil
			})
		case "mutex":
			return parseSequence(value, field, func(itemPath string, item *yml.Node) error {
				call := &model.MutexCall{}
				op, err := parseCall(item, itemPath, &call.ID, &call.At, string(model.OpLock), string(model.OpUnlock))
				if err != nil {
					return err
				}
				call.Op = model.MutexOp(op)
				process.Mutex = append(process.Mutex, call)
				return nil
			})
		case "memory_access":
			return parseSequence(value, field, func(itemPath string, item *yml.Node) error {
				if item.Kind != yaml.MappingNode {
					return invalid(itemPath, fmt.Errorf("expected mapping"))
				}
				return item.Pairs(func(literal string, at *yml.Node) error {
					accessPath := fmt.Sprintf("%s[%q]", itemPath, literal)
					addr, err := address.Parse([]byte(literal))
					if err != nil {
						return invalid(accessPath, err)
					}
					arrival, err := at.Int()
					if err != nil {
						return invalid(accessPath, err)
					}
					process.MemoryAccess = append(process.MemoryAccess, &model.MemoryAccess{Literal: literal, Address: addr, At: arrival})
					return nil
				})
			})
		}
		return nil
	})
	return process, err
}

// parseCall reads {id: N, <op>: T} where op is one of the two allowed keys.
func parseCall(node *yml.Node, path string, id, at *int, ops ...string) (string, error) {
	if err := requireInt(node, path, "id", id); err != nil {
		return "", err
	}
	op := ""
	for _, candidate := range ops {
		if node.Lookup(candidate) == nil {
			continue
		}
		if op != "" {
			return "", invalid(path, fmt.Errorf("expected exactly one of %v", ops))
		}
		op = candidate
	}
	if op == "" {
		return "", invalid(path, fmt.Errorf("expected one of %v", ops))
	}
	return op, requireInt(node, path, op, at)
}

func parseSequence(node *yml.Node, path string, callback func(path string, item *yml.Node) error) error {
	if node.Kind != yaml.SequenceNode {
		return invalid(path, fmt.Errorf("expected sequence"))
	}
	return node.Items(func(index int, item *yml.Node) error {
		return callback(fmt.Sprintf("%s[%d]", path, index), item)
	})
}

func requireInt(node *yml.Node, path, key string, dest *int) error {
	if node.Kind != yaml.MappingNode {
		return invalid(path, fmt.Errorf("expected mapping"))
	}
	value := node.Lookup(key)
	if value == nil {
		return invalid(path+"."+key, fmt.Errorf("required"))
	}
	var err error
	if *dest, err = value.Int(); err != nil {
		return invalid(path+"."+key, err)
	}
	return nil
}

func invalid(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidScenario, path, err)
}

// New creates a scenario loader
func New(options ...Option) *Service {
	ret := &Service{
		fs:     afs.New(),
		config: DefaultConfig(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
