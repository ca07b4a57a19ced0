package param

import "fmt"

// KernelParameter is a Parameter declared as a kernel parameter. It behaves
// exactly like Parameter; the distinct type lets collections group
// parameters by role.
type KernelParameter struct {
	*Parameter
}

var _ Declared = (*KernelParameter)(nil)

// NewKernel declares a kernel parameter. See New.
func NewKernel(def any, opts ...Option) (*KernelParameter, error) {
	p, err := New(def, opts...)
	if err != nil {
		return nil, err
	}
	return &KernelParameter{Parameter: p}, nil
}

// MustNewKernel is like NewKernel but panics on error.
func MustNewKernel(def any, opts ...Option) *KernelParameter {
	return &KernelParameter{Parameter: MustNew(def, opts...)}
}

// Base returns the embedded Parameter, or nil for a nil k.
func (k *KernelParameter) Base() *Parameter {
	if k == nil {
		return nil
	}
	return k.Parameter
}

// Snapshot captures k and marks the snapshot as a kernel declaration.
func (k *KernelParameter) Snapshot() Snapshot {
	s := k.Parameter.Snapshot()
	s.Kernel = true
	return s
}

func (k *KernelParameter) String() string {
	return fmt.Sprintf("kernel:%s", k.Parameter.String())
}
