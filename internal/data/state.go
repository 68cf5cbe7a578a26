package data

type ItemState int

const (
	Pending ItemState = iota // discovered, not yet started
	Running                  // resolve or decode in progress
	Done                     // succeeded or failed, never retried
)

func (s ItemState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	}
	return "unknown"
}
