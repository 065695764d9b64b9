package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecofest/accreditation-api/internal/domain/badge"
	"github.com/ecofest/accreditation-api/internal/domain/participant"
	"github.com/ecofest/accreditation-api/internal/domain/registration"
	"github.com/ecofest/accreditation-api/internal/mailer"
	"github.com/ecofest/accreditation-api/internal/notify"
	"github.com/ecofest/accreditation-api/internal/queue"
	"github.com/ecofest/accreditation-api/internal/render"
	"github.com/ecofest/accreditation-api/internal/storage/blob"
	"github.com/ecofest/accreditation-api/internal/storage/postgres"
)

// ---- fakes ----

type fakeRegistrations struct {
	mu   sync.Mutex
	regs map[uuid.UUID]*registration.Registration
}

func newFakeRegistrations() *fakeRegistrations {
	return &fakeRegistrations{regs: make(map[uuid.UUID]*registration.Registration)}
}

func (f *fakeRegistrations) Create(reg *registration.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	copy := *reg
	f.regs[reg.ID] = &copy
	return nil
}

func (f *fakeRegistrations) GetByID(id uuid.UUID) (*registration.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[id]
	if !ok {
		return nil, &postgres.NotFoundError{Entity: "registration"}
	}
	copy := *reg
	return &copy, nil
}

func (f *fakeRegistrations) GetAll() ([]*registration.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*registration.Registration
	for _, reg := range f.regs {
		copy := *reg
		out = append(out, &copy)
	}
	return out, nil
}

func (f *fakeRegistrations) GetByStatus(status registration.Status) ([]*registration.Registration, error) {
	all, _ := f.GetAll()
	var out []*registration.Registration
	for _, reg := range all {
		if reg.Status == status {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (f *fakeRegistrations) GetByParticipant(participantID uuid.UUID) ([]*registration.Registration, error) {
	all, _ := f.GetAll()
	var out []*registration.Registration
	for _, reg := range all {
		if reg.ParticipantID == participantID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (f *fakeRegistrations) Update(reg *registration.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *reg
	f.regs[reg.ID] = &copy
	return nil
}

func (f *fakeRegistrations) UpdateStatus(id uuid.UUID, status registration.Status, remark string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[id]
	if !ok {
		return &postgres.NotFoundError{Entity: "registration"}
	}
	reg.Status = status
	reg.AdminRemark = remark
	return nil
}

func (f *fakeRegistrations) UpdateArtifacts(id uuid.UUID, badgePath, letterPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[id]
	if !ok {
		return &postgres.NotFoundError{Entity: "registration"}
	}
	reg.BadgePath = badgePath
	reg.LetterPath = letterPath
	return nil
}

type fakeParticipants struct {
	mu           sync.Mutex
	participants map[uuid.UUID]*participant.Participant
}

func newFakeParticipants() *fakeParticipants {
	return &fakeParticipants{participants: make(map[uuid.UUID]*participant.Participant)}
}

func (f *fakeParticipants) Create(p *participant.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.participants[p.ID] = p
	return nil
}

func (f *fakeParticipants) GetByID(id uuid.UUID) (*participant.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[id]
	if !ok {
		return nil, &postgres.NotFoundError{Entity: "participant"}
	}
	return p, nil
}

func (f *fakeParticipants) GetAll() ([]*participant.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*participant.Participant
	for _, p := range f.participants {
		out = append(out, p)
	}
	return out, nil
}

type fakeBadges struct {
	mu      sync.Mutex
	byReg   map[uuid.UUID]*badge.Badge
	upserts int
}

func newFakeBadges() *fakeBadges {
	return &fakeBadges{byReg: make(map[uuid.UUID]*badge.Badge)}
}

func (f *fakeBadges) Upsert(b *badge.Badge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	copy := *b
	f.byReg[b.RegistrationID] = &copy
	return nil
}

func (f *fakeBadges) GetByRegistrationID(registrationID uuid.UUID) (*badge.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byReg[registrationID]
	if !ok {
		return nil, &postgres.NotFoundError{Entity: "badge"}
	}
	copy := *b
	return &copy, nil
}

func (f *fakeBadges) GetByToken(token uuid.UUID) (*badge.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.byReg {
		if b.Token == token {
			copy := *b
			return &copy, nil
		}
	}
	return nil, &postgres.NotFoundError{Entity: "badge"}
}

type fakeStore struct {
	mu     sync.Mutex
	files  map[string][]byte
	writes int
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (f *fakeStore) Write(ctx context.Context, path string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes++
	f.files[path] = data
	return nil
}

func (f *fakeStore) Read(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (f *fakeStore) URLFor(ctx context.Context, path string) (string, error) {
	return "https://example.com/" + path, nil
}

type fakeRenderer struct {
	badgeErr  error
	letterErr error
}

func (f *fakeRenderer) Badge(reg *registration.Registration) (*render.Artifact, error) {
	if f.badgeErr != nil {
		return nil, f.badgeErr
	}
	return &render.Artifact{Path: blob.BadgePath(reg.ID), Bytes: []byte("png-bytes"), MIME: "image/png"}, nil
}

func (f *fakeRenderer) Letter(reg *registration.Registration) (*render.Artifact, error) {
	if f.letterErr != nil {
		return nil, f.letterErr
	}
	return &render.Artifact{Path: blob.LetterPath(reg.ID), Bytes: []byte("pdf-bytes"), MIME: "application/pdf"}, nil
}

type fakeJobs struct {
	mu   sync.Mutex
	jobs []queue.JobType
	err  error
}

func (f *fakeJobs) Enqueue(ctx context.Context, jobType queue.JobType, registrationID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, jobType)
	return nil
}

type sentMail struct {
	mu       sync.Mutex
	messages []*mailer.Message
	err      error
}

func (s *sentMail) Name() string { return "fake" }

func (s *sentMail) Send(ctx context.Context, msg *mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *sentMail) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *sentMail) last() *mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return nil
	}
	return s.messages[len(s.messages)-1]
}

// ---- harness ----

type harness struct {
	controller    *Controller
	registrations *fakeRegistrations
	participants  *fakeParticipants
	badges        *fakeBadges
	store         *fakeStore
	renderer      *fakeRenderer
	sender        *sentMail
}

func newHarness(t *testing.T, jobs Jobs) *harness {
	t.Helper()

	sender := &sentMail{}
	notifier, err := notify.NewNotifier(mailer.NewDispatcher(sender, nil), notify.Options{
		EventName: "ECOFEST 2025",
		SiteURL:   "https://ecofest.app",
	})
	require.NoError(t, err)

	h := &harness{
		registrations: newFakeRegistrations(),
		participants:  newFakeParticipants(),
		badges:        newFakeBadges(),
		store:         newFakeStore(),
		renderer:      &fakeRenderer{},
		sender:        sender,
	}
	h.controller = NewController(h.registrations, h.participants, h.badges, h.renderer, notifier, h.store, jobs)
	return h
}

func submitRequest() SubmitRequest {
	return SubmitRequest{
		FirstName:   "Awa",
		LastName:    "Diallo",
		Email:       "awa@example.com",
		Nationality: "Senegal",
		Origin:      "Radio Dakar",
		Profile:     registration.ProfilePress,
	}
}

// ---- tests ----

func TestSubmitCreatesPendingRegistration(t *testing.T) {
	h := newHarness(t, nil)

	reg, err := h.controller.Submit(context.Background(), submitRequest())

	require.NoError(t, err)
	assert.Equal(t, registration.StatusPending, reg.Status)
	assert.NotEqual(t, uuid.Nil, reg.ID)
	assert.NotEqual(t, uuid.Nil, reg.ParticipantID)

	stored, err := h.registrations.GetByID(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusPending, stored.Status)

	// confirmation sent synchronously when no queue is configured
	require.Equal(t, 1, h.sender.count())
	assert.Contains(t, h.sender.last().Subject, "request received")
}

func TestSubmitEnqueuesConfirmationWhenQueueConfigured(t *testing.T) {
	jobs := &fakeJobs{}
	h := newHarness(t, jobs)

	_, err := h.controller.Submit(context.Background(), submitRequest())

	require.NoError(t, err)
	require.Len(t, jobs.jobs, 1)
	assert.Equal(t, queue.JobTypeConfirmation, jobs.jobs[0])
	assert.Equal(t, 0, h.sender.count())
}

func TestSubmitInvalidEmailRejected(t *testing.T) {
	h := newHarness(t, nil)

	req := submitRequest()
	req.Email = "not-an-email"

	_, err := h.controller.Submit(context.Background(), req)

	assert.ErrorIs(t, err, registration.ErrEmailInvalid)
}

func TestSubmitMailFailureDoesNotBlockCreation(t *testing.T) {
	h := newHarness(t, nil)
	h.sender.err = errors.New("provider down")

	reg, err := h.controller.Submit(context.Background(), submitRequest())

	require.NoError(t, err)
	stored, err := h.registrations.GetByID(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusPending, stored.Status)
}

func TestApproveEnqueuesPackageWhenQueueConfigured(t *testing.T) {
	jobs := &fakeJobs{}
	h := newHarness(t, jobs)
	reg, err := h.controller.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	updated, effects, err := h.controller.Approve(context.Background(), reg.ID, "looks good")

	require.NoError(t, err)
	assert.Equal(t, registration.StatusApproved, updated.Status)

	// package job handed to the worker, nothing delivered in line
	require.Len(t, jobs.jobs, 2)
	assert.Equal(t, queue.JobTypePackage, jobs.jobs[1])
	assert.Equal(t, 0, h.sender.count())
	assert.Empty(t, h.store.files)

	assert.Equal(t, "queued", effects.Badge.Channel)
	assert.Equal(t, "queued", effects.Email.Channel)
	assert.Empty(t, effects.Warnings())

	// la aprobación queda persistida antes de encolar
	stored, err := h.registrations.GetByID(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusApproved, stored.Status)
}

func TestApproveFallsBackToSyncWhenEnqueueFails(t *testing.T) {
	jobs := &fakeJobs{}
	h := newHarness(t, jobs)
	reg, err := h.controller.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	jobs.err = errors.New("redis down")
	updated, effects, err := h.controller.Approve(context.Background(), reg.ID, "")

	require.NoError(t, err)
	assert.Equal(t, registration.StatusApproved, updated.Status)

	// delivered in line despite the broken queue
	assert.True(t, effects.Badge.OK)
	assert.True(t, effects.Email.OK)
	assert.Contains(t, h.store.files, blob.BadgePath(reg.ID))
	assert.Contains(t, h.store.files, blob.LetterPath(reg.ID))
	require.Equal(t, 1, h.sender.count())
	assert.Contains(t, h.sender.last().Subject, "approved")
}

func TestApproveGeneratesArtifactsAndSendsPackage(t *testing.T) {
	h := newHarness(t, nil)
	reg, err := h.controller.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	updated, effects, err := h.controller.Approve(context.Background(), reg.ID, "looks good")

	require.NoError(t, err)
	assert.Equal(t, registration.StatusApproved, updated.Status)
	assert.Equal(t, "looks good", updated.AdminRemark)

	assert.True(t, effects.Badge.OK)
	assert.True(t, effects.Letter.OK)
	assert.True(t, effects.Email.OK)
	assert.Empty(t, effects.Warnings())

	// badge and letter written under deterministic paths
	assert.Contains(t, h.store.files, blob.BadgePath(reg.ID))
	assert.Contains(t, h.store.files, blob.LetterPath(reg.ID))

	// artifact refs persisted
	stored, err := h.registrations.GetByID(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, blob.BadgePath(reg.ID), stored.BadgePath)
	assert.Equal(t, blob.LetterPath(reg.ID), stored.LetterPath)

	// badge row issued with profile zones
	issued, err := h.badges.GetByRegistrationID(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.ProfilePress.String(), issued.AccessLevel)
	assert.NotEmpty(t, issued.Zones)

	// submit confirmation + package email
	require.Equal(t, 2, h.sender.count())
	pkg := h.sender.last()
	assert.Contains(t, pkg.Subject, "approved")
	assert.Len(t, pkg.Attachments, 2)
}

func TestApproveSurvivesBadgeFailure(t *testing.T) {
	h := newHarness(t, nil)
	reg, err := h.controller.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	h.renderer.badgeErr = errors.New("template missing")

	updated, effects, err := h.controller.Approve(context.Background(), reg.ID, "")

	require.NoError(t, err)
	assert.Equal(t, registration.StatusApproved, updated.Status)

	assert.False(t, effects.Badge.OK)
	assert.Contains(t, effects.Badge.Reason, "template missing")
	assert.True(t, effects.Letter.OK)
	assert.True(t, effects.Email.OK)

	warnings := effects.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "badge:")

	// the decision is durable even though the badge failed
	stored, err := h.registrations.GetByID(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusApproved, stored.Status)
	assert.Empty(t, stored.BadgePath)
	assert.Equal(t, blob.LetterPath(reg.ID), stored.LetterPath)

	// package email still sent, with the letter only
	pkg := h.sender.last()
	require.Len(t, pkg.Attachments, 1)
	assert.Contains(t, pkg.Attachments[0].Filename, "invitation_")
}

func TestApproveNotFound(t *testing.T) {
	h := newHarness(t, nil)

	_, _, err := h.controller.Approve(context.Background(), uuid.New(), "")

	assert.True(t, postgres.IsNotFound(err))
}

func TestReapproveRegeneratesAndKeepsToken(t *testing.T) {
	h := newHarness(t, nil)
	reg, err := h.controller.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	_, _, err = h.controller.Approve(context.Background(), reg.ID, "first")
	require.NoError(t, err)
	first, err := h.badges.GetByRegistrationID(reg.ID)
	require.NoError(t, err)

	_, effects, err := h.controller.Approve(context.Background(), reg.ID, "second")
	require.NoError(t, err)
	assert.True(t, effects.Email.OK)

	second, err := h.badges.GetByRegistrationID(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, 2, h.badges.upserts)

	// confirmation + two package emails
	assert.Equal(t, 3, h.sender.count())
	assert.Equal(t, 4, h.store.writes)
}

func TestRejectNoArtifactsNoEmail(t *testing.T) {
	h := newHarness(t, nil)
	reg, err := h.controller.Submit(context.Background(), submitRequest())
	require.NoError(t, err)
	sentBefore := h.sender.count()

	updated, err := h.controller.Reject(context.Background(), reg.ID, "incomplete documents")

	require.NoError(t, err)
	assert.Equal(t, registration.StatusRejected, updated.Status)
	assert.Equal(t, "incomplete documents", updated.AdminRemark)

	assert.Empty(t, h.store.files)
	assert.Equal(t, sentBefore, h.sender.count())

	_, err = h.badges.GetByRegistrationID(reg.ID)
	assert.True(t, postgres.IsNotFound(err))
}

func TestResendConfirmation(t *testing.T) {
	h := newHarness(t, nil)
	reg, err := h.controller.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	require.NoError(t, h.controller.ResendConfirmation(context.Background(), reg.ID))
	assert.Equal(t, 2, h.sender.count())

	err = h.controller.ResendConfirmation(context.Background(), uuid.New())
	assert.True(t, postgres.IsNotFound(err))
}

func TestSendPackageRequiresApproval(t *testing.T) {
	h := newHarness(t, nil)
	reg, err := h.controller.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	result := h.controller.SendPackage(context.Background(), reg.ID)

	assert.False(t, result.OK)
	assert.Contains(t, result.Reason, "not approved")
}

func TestSendPackageForApprovedRegistration(t *testing.T) {
	h := newHarness(t, nil)
	reg, err := h.controller.Submit(context.Background(), submitRequest())
	require.NoError(t, err)
	_, _, err = h.controller.Approve(context.Background(), reg.ID, "")
	require.NoError(t, err)

	result := h.controller.SendPackage(context.Background(), reg.ID)

	assert.True(t, result.OK)
	pkg := h.sender.last()
	assert.Len(t, pkg.Attachments, 2)
}

func TestConcurrentApprovalsSerialize(t *testing.T) {
	h := newHarness(t, nil)
	reg, err := h.controller.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := h.controller.Approve(context.Background(), reg.ID, "race")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := h.registrations.GetByID(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusApproved, stored.Status)

	// one badge row regardless of how many approvals raced
	_, err = h.badges.GetByRegistrationID(reg.ID)
	require.NoError(t, err)
}
