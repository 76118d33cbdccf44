package provision

// Status is the non-fatal result of a provisioning call.
type Status int

const (
	// Created means the call changed something.
	Created Status = iota
	// AlreadyExists means the target was already there. Any follow-up
	// bindings for it have still been applied.
	AlreadyExists
)

func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case AlreadyExists:
		return "already exists"
	default:
		return "unknown"
	}
}

// Outcome is what a provisioning call reports when it did not fail.
// Fatal failures are returned as errors instead.
type Outcome struct {
	Status Status
	// Descriptor is a human readable identifier of the object and where it lives
	Descriptor string
}

func created(descriptor string) Outcome {
	return Outcome{Status: Created, Descriptor: descriptor}
}

func existed(descriptor string) Outcome {
	return Outcome{Status: AlreadyExists, Descriptor: descriptor}
}

// Recoverable reports whether the outcome is an already-exists no-op.
func (o Outcome) Recoverable() bool {
	return o.Status == AlreadyExists
}
