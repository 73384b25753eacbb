package lifecycle

// lot is a single buy fill held in the FIFO ledger until consumed by sells.
// Lots are value types owned by the ledger; nothing shares references to
// them.
type lot struct {
	timestamp       int64
	amount          float64 // remaining amount
	originalAmount  float64
	solValuePerUnit float64
}

// ledger is a FIFO deque of open buy lots backed by a slice arena: lots are
// appended at the back, consumed from the front via a moving head index, and
// partially consumed lots shrink in place.
type ledger struct {
	lots []lot
	head int
}

// push appends a new lot at the back.
func (l *ledger) push(timestamp int64, amount, solValue float64) {
	perUnit := 0.0
	if amount > 0 {
		perUnit = solValue / amount
	}
	l.lots = append(l.lots, lot{
		timestamp:       timestamp,
		amount:          amount,
		originalAmount:  amount,
		solValuePerUnit: perUnit,
	})
}

// front returns the oldest open lot, or nil when the ledger is empty.
func (l *ledger) front() *lot {
	if l.head >= len(l.lots) {
		return nil
	}
	return &l.lots[l.head]
}

// pop discards the front lot.
func (l *ledger) pop() {
	if l.head < len(l.lots) {
		l.head++
	}
}

// open returns the lots that still carry a positive amount.
func (l *ledger) open() []lot {
	var out []lot
	for i := l.head; i < len(l.lots); i++ {
		if l.lots[i].amount > positionEpsilon {
			out = append(out, l.lots[i])
		}
	}
	return out
}
