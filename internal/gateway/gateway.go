package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ThaerHindawi/livekit/internal/crypto"
	"github.com/ThaerHindawi/livekit/internal/metrics"
	"github.com/ThaerHindawi/livekit/internal/models"
	"github.com/ThaerHindawi/livekit/internal/store"
)

// maxNameLength bounds room and participant names.
const maxNameLength = 128

// journalTimeout bounds best-effort journal writes and rollbacks, which run
// detached from the request context.
const journalTimeout = 2 * time.Second

// CredentialIssuer signs access tokens. *crypto.TokenSigner implements it.
type CredentialIssuer interface {
	Configured() bool
	Issue(ctx context.Context, grant crypto.AccessGrant) (string, error)
}

// Options configures a Gateway.
type Options struct {
	WSURL        string
	TokenTTL     time.Duration
	IssueTimeout time.Duration
}

// Access is what a caller needs to join a room.
type Access struct {
	Token       string
	WSURL       string
	Room        string
	Participant string
}

// Gateway admits participants into rooms and hands out access tokens.
type Gateway struct {
	registry store.RoomRegistry
	issuer   CredentialIssuer
	journal  store.Journal
	opts     Options
	logger   zerolog.Logger

	mu     sync.Mutex
	claims map[slotKey]*slotClaim
}

type slotKey struct {
	room        string
	participant string
}

// slotClaim tracks the requests for one (room, participant) pair that are
// between admission and the end of issuance. mu serializes admission and
// rollback for the pair.
type slotClaim struct {
	mu      sync.Mutex
	refs    int  // requests holding this claim; guarded by Gateway.mu
	issuing int  // admitted requests still signing
	fresh   bool // some request in this claim inserted the slot
	granted bool // some request in this claim handed out a token
}

// New creates a Gateway. journal may be nil.
func New(registry store.RoomRegistry, issuer CredentialIssuer, journal store.Journal, opts Options, logger zerolog.Logger) *Gateway {
	if registry == nil {
		panic("gateway: registry cannot be nil")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = crypto.DefaultTokenTTL
	}
	if opts.IssueTimeout <= 0 {
		opts.IssueTimeout = 5 * time.Second
	}
	return &Gateway{
		registry: registry,
		issuer:   issuer,
		journal:  journal,
		opts:     opts,
		logger:   logger.With().Str("component", "gateway").Logger(),
		claims:   make(map[slotKey]*slotClaim),
	}
}

// Configured reports whether tokens can be issued.
func (g *Gateway) Configured() bool {
	return g.issuer != nil && g.issuer.Configured() && g.opts.WSURL != ""
}

// RequestAccess admits participant into room and returns a token for it.
func (g *Gateway) RequestAccess(ctx context.Context, room, participant string) (*Access, error) {
	room = strings.TrimSpace(room)
	participant = strings.TrimSpace(participant)

	if room == "" || participant == "" {
		return nil, ErrInvalidRequest
	}
	if len(room) > maxNameLength || len(participant) > maxNameLength {
		return nil, fmt.Errorf("%w: names must be at most %d bytes", ErrInvalidRequest, maxNameLength)
	}

	if !g.Configured() {
		return nil, ErrNotConfigured
	}

	log := g.logger.With().Str("room", room).Str("participant", participant).Logger()

	key := slotKey{room, participant}
	claim := g.acquire(key)
	defer g.release(key)

	admission, err := g.admit(ctx, claim, room, participant)
	if err != nil {
		log.Error().Err(err).Msg("admission check failed")
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	metrics.AdmissionsTotal.WithLabelValues(admission.String()).Inc()

	if !admission.Allowed() {
		log.Info().Msg("room full, participant rejected")
		g.record(room, participant, models.EventRejected)
		return nil, ErrRoomFull
	}

	token, err := g.issue(ctx, room, participant)
	g.finish(claim, room, participant, err == nil, log)
	if err != nil {
		metrics.IssuanceFailures.Inc()
		log.Error().Err(err).Str("admission", admission.String()).Msg("token issuance failed")
		g.record(room, participant, models.EventIssuanceFailed)
		return nil, fmt.Errorf("%w: %v", ErrIssuanceFailed, err)
	}
	metrics.TokensIssued.Inc()

	kind := models.EventAdmitted
	if admission == store.Readmitted {
		kind = models.EventReadmitted
	}
	log.Info().Str("admission", admission.String()).Msg("access granted")
	g.record(room, participant, kind)

	return &Access{
		Token:       token,
		WSURL:       g.opts.WSURL,
		Room:        room,
		Participant: participant,
	}, nil
}

// issue signs a token, giving up after the configured timeout.
func (g *Gateway) issue(ctx context.Context, room, participant string) (string, error) {
	defer func(start time.Time) {
		metrics.IssuanceDuration.Observe(time.Since(start).Seconds())
	}(time.Now())

	ctx, cancel := context.WithTimeout(ctx, g.opts.IssueTimeout)
	defer cancel()

	type result struct {
		token string
		err   error
	}
	done := make(chan result, 1)

	go func() {
		token, err := g.issuer.Issue(ctx, crypto.AccessGrant{
			Room:     room,
			Identity: participant,
			TTL:      g.opts.TokenTTL,
		})
		done <- result{token, err}
	}()

	select {
	case res := <-done:
		return res.token, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (g *Gateway) acquire(key slotKey) *slotClaim {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.claims[key]
	if !ok {
		c = &slotClaim{}
		g.claims[key] = c
	}
	c.refs++
	return c
}

func (g *Gateway) release(key slotKey) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := g.claims[key]
	c.refs--
	if c.refs == 0 {
		delete(g.claims, key)
	}
}

// admit runs TryAdmit under the claim lock and registers the request as
// issuing when it got a slot.
func (g *Gateway) admit(ctx context.Context, c *slotClaim, room, participant string) (store.Admission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	admission, err := g.registry.TryAdmit(ctx, room, participant)
	if err != nil || !admission.Allowed() {
		return admission, err
	}
	c.issuing++
	if admission == store.Admitted {
		c.fresh = true
	}
	return admission, nil
}

// finish settles a request's issuance. The slot is given back only by the
// last issuing request, only if the slot was inserted within this claim,
// and only if no request handed out a token for it.
func (g *Gateway) finish(c *slotClaim, room, participant string, granted bool, log zerolog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issuing--
	if granted {
		c.granted = true
	}
	if c.issuing > 0 || c.granted || !c.fresh {
		return
	}
	c.fresh = false

	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()

	if _, err := g.registry.Remove(ctx, room, participant); err != nil {
		log.Error().Err(err).Msg("failed to roll back admission")
		return
	}
	log.Warn().Msg("admission rolled back")
}

// ReleaseAccess frees participant's slot in room. It never fails; the
// media service, not this gateway, ends the actual session.
func (g *Gateway) ReleaseAccess(ctx context.Context, room, participant string) {
	room = strings.TrimSpace(room)
	participant = strings.TrimSpace(participant)

	removed, err := g.registry.Remove(ctx, room, participant)
	if err != nil {
		g.logger.Warn().Err(err).
			Str("room", room).
			Str("participant", participant).
			Msg("release failed")
		return
	}
	if !removed {
		return
	}

	metrics.ReleasesTotal.Inc()
	g.record(room, participant, models.EventReleased)
}

// Status returns the occupancy of room.
func (g *Gateway) Status(ctx context.Context, room string) (models.RoomStatus, error) {
	status, err := g.registry.Status(ctx, strings.TrimSpace(room))
	if err != nil {
		return models.RoomStatus{}, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	return status, nil
}

// record appends an event to the journal. Failures are logged, not returned.
func (g *Gateway) record(room, participant string, kind models.EventKind) {
	if g.journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()

	event := &models.RoomEvent{Room: room, Participant: participant, Kind: kind}
	if err := g.journal.RecordEvent(ctx, event); err != nil {
		g.logger.Warn().Err(err).
			Str("room", room).
			Str("participant", participant).
			Str("kind", string(kind)).
			Msg("failed to record room event")
	}
}
