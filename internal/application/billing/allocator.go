package billing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/repository"
	"github.com/Faroffcode/gst-zen-lovable-sub000/pkg/logger"
)

// Allocation tiers, from most to least preferred. Anything below
// TierSequence is a degraded allocation: the number is still usable but
// came from a fallback path and is worth reviewing.
type Tier string

const (
	TierSequence  Tier = "sequence"
	TierScan      Tier = "scan"
	TierTimestamp Tier = "timestamp"
)

// Allocation is an invoice number plus the tier that produced it.
type Allocation struct {
	Number string
	Tier   Tier
}

// Degraded reports whether the number came from a fallback tier.
func (a Allocation) Degraded() bool { return a.Tier != TierSequence }

// NumberAllocator hands out invoice numbers in the PREFIX-NNNN format.
// Three tiers:
//
//  1. the store's atomic increment-and-format sequence;
//  2. scan the latest persisted number with the prefix and add one
//     (racy under concurrency, duplicates possible);
//  3. a timestamp-based number that is unique but breaks the
//     consecutive sequence.
//
// Allocation never fails: tier 3 needs nothing from the store. A
// degraded allocation is logged as a warning and tagged on the result
// so the caller can surface it.
type NumberAllocator struct {
	sequences repository.SequenceRepository
	invoices  repository.InvoiceRepository
	prefix    string
	pad       int
	pattern   *regexp.Regexp
	log       *logger.Logger
	now       func() time.Time
}

// NewNumberAllocator builds an allocator for the given prefix and
// minimum digit padding.
func NewNumberAllocator(
	sequences repository.SequenceRepository,
	invoices repository.InvoiceRepository,
	prefix string,
	pad int,
	log *logger.Logger,
) *NumberAllocator {
	return &NumberAllocator{
		sequences: sequences,
		invoices:  invoices,
		prefix:    prefix,
		pad:       pad,
		pattern:   regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `-(\d+)$`),
		log:       log,
		now:       time.Now,
	}
}

// Next allocates the next invoice number, trying each tier in order.
func (a *NumberAllocator) Next() Allocation {
	number, err := a.sequences.NextInvoiceNumber(a.prefix, a.pad)
	if err == nil {
		return Allocation{Number: number, Tier: TierSequence}
	}
	a.warnDegraded(TierScan, err)

	number, scanErr := a.nextFromScan()
	if scanErr == nil {
		return Allocation{Number: number, Tier: TierScan}
	}
	a.warnDegraded(TierTimestamp, scanErr)

	return Allocation{
		Number: fmt.Sprintf("%s-%08d", a.prefix, a.now().Unix()%timestampModulus),
		Tier:   TierTimestamp,
	}
}

// timestampModulus truncates the tier-3 unix timestamp to its low eight
// digits, keeping the number close to the usual width. Uniqueness at
// this tier is best effort anyway.
const timestampModulus = 100_000_000

// nextFromScan reads the most recently created number with the prefix
// and increments its numeric suffix. Padding never shrinks: a suffix
// already wider than the configured pad keeps its width.
func (a *NumberAllocator) nextFromScan() (string, error) {
	latest, err := a.invoices.LatestNumber(a.prefix)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return fmt.Sprintf("%s-%0*d", a.prefix, a.pad, 1), nil
	}
	m := a.pattern.FindStringSubmatch(latest)
	if m == nil {
		return "", fmt.Errorf("latest invoice number %q does not match %s-NNNN", latest, a.prefix)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse invoice number %q: %w", latest, err)
	}
	width := a.pad
	if len(m[1]) > width {
		width = len(m[1])
	}
	return fmt.Sprintf("%s-%0*d", a.prefix, width, n+1), nil
}

func (a *NumberAllocator) warnDegraded(next Tier, cause error) {
	degraded := &domain.AllocationDegradedError{Tier: string(next), Cause: cause}
	a.log.Warn().Err(degraded).Msg("invoice number allocation degraded")
}
