package runtime

const (
	defaultMailboxSize = 64
	defaultNumWorkers  = 1
	defaultBufferSize  = 1
)

// Config sizes a program's channels and scheduler pool.
type Config struct {
	// MailboxSize bounds the program's dispatch mailbox. Dispatches
	// block once the mailbox is full, so it should be sized for the
	// largest synchronous fan-out an update cycle can produce.
	MailboxSize int
	// NumWorkers is the number of scheduler workers for keyed
	// continuations.
	NumWorkers int
	// BufferSize bounds each scheduler worker's submission queue.
	BufferSize int
}

// NewConfig builds a Config, clamping non-positive values to defaults.
func NewConfig(mailboxSize, numWorkers, bufferSize int) Config {
	if mailboxSize <= 0 {
		mailboxSize = defaultMailboxSize
	}
	if numWorkers <= 0 {
		numWorkers = defaultNumWorkers
	}
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return Config{
		MailboxSize: mailboxSize,
		NumWorkers:  numWorkers,
		BufferSize:  bufferSize,
	}
}
