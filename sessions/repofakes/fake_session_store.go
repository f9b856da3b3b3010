package repofakes

import (
	"strings"
	"sync"

	"github.com/jrsteele09/go-cognito-webapp/sessions"
)

var _ sessions.Store = &FakeStore{}

// FakeStore is an in-memory sessions.Store that records every operation and
// can be told to fail specific calls.
type FakeStore struct {
	mu     sync.Mutex
	values map[string]string

	// Ops records operations in order, e.g. "set jwt.id", "remove username".
	Ops []string
	// SetErrors fails Set for the given names.
	SetErrors map[string]error
	// GetErr fails every Get.
	GetErr error
}

// NewFakeStore creates an empty fake store
func NewFakeStore() *FakeStore {
	return &FakeStore{
		values:    make(map[string]string),
		SetErrors: make(map[string]error),
	}
}

func (f *FakeStore) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Ops = append(f.Ops, "set "+name)
	if err := f.SetErrors[name]; err != nil {
		return err
	}
	f.values[name] = value
	return nil
}

func (f *FakeStore) Get(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return "", f.GetErr
	}
	v, ok := f.values[name]
	if !ok {
		return "", sessions.ErrNotFound
	}
	return v, nil
}

func (f *FakeStore) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Ops = append(f.Ops, "remove "+name)
	delete(f.values, name)
	return nil
}

// Record appends an operation from a collaborator so ordering can be asserted
func (f *FakeStore) Record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ops = append(f.Ops, op)
}

// Values returns a copy of everything currently stored
func (f *FakeStore) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Writes returns only the set operations
func (f *FakeStore) Writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var writes []string
	for _, op := range f.Ops {
		if strings.HasPrefix(op, "set ") {
			writes = append(writes, op)
		}
	}
	return writes
}
