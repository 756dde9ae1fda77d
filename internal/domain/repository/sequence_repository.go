package repository

// SequenceRepository is the port for the backing store's atomic
// increment-and-format invoice number sequence. Best effort: the
// allocator falls back to scanning when this errors.
type SequenceRepository interface {
	NextInvoiceNumber(prefix string, pad int) (string, error)
}
