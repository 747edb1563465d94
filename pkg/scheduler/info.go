package scheduler

import (
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ilkoid/taskcore/pkg/block"
)

// Version is the process build identifier stamped into every Info
// snapshot. Release builds override it via -ldflags.
var Version = "dev"

// Info is a running-block snapshot correlating a subject's output
// directory with the exact task/block definition that produced it, even
// if the task file is edited afterward. It is written once per run via
// Logger.Write("info", ...) and surfaced to a selection/status screen via
// Scheduler.Info.
type Info struct {
	Server ServerInfo `json:"server" yaml:"server"`
	Task   TaskInfo   `json:"task" yaml:"task"`
	Block  BlockInfo  `json:"block" yaml:"block"`
}

type ServerInfo struct {
	Subject string `json:"subject" yaml:"subject"`
	Output  string `json:"output" yaml:"output"`
	Version string `json:"version" yaml:"version"`
	// RunID is a per-invocation identifier independent of Output's path.
	RunID string `json:"run_id" yaml:"run_id"`
}

type TaskInfo struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Hash    string `json:"hash" yaml:"hash"`
}

type BlockInfo struct {
	Name string `json:"name" yaml:"name"`
	Hash string `json:"hash" yaml:"hash"`
}

// NewInfo builds an Info snapshot for one block run.
func NewInfo(subject, output string, task *block.Task, blk *block.Block) (Info, error) {
	taskHash, err := contentHash(task)
	if err != nil {
		return Info{}, fmt.Errorf("scheduler: hash task: %w", err)
	}
	blockHash, err := contentHash(blk)
	if err != nil {
		return Info{}, fmt.Errorf("scheduler: hash block: %w", err)
	}
	return Info{
		Server: ServerInfo{Subject: subject, Output: output, Version: Version, RunID: uuid.NewString()},
		Task:   TaskInfo{Name: task.Name, Version: task.Version, Hash: taskHash},
		Block:  BlockInfo{Name: blk.Name, Hash: blockHash},
	}, nil
}

// contentHash FNV-1a hashes v's encoded bytes, a cheap non-cryptographic
// fingerprint. It marshals through yaml rather than gob: Task/Block embed
// action.Node, whose Value field is the action.Stateless interface, and
// gob would require every variant's concrete type to be gob.Register'd up
// front, whereas yaml.v3 already reflects through the dynamic type with no
// registration.
func contentHash(v any) (string, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	h := fnv.New64a()
	h.Write(b)
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
