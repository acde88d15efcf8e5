package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"weddingplanner/internal/entity"
	"weddingplanner/internal/paystack"
	"weddingplanner/internal/repository"

	"github.com/google/uuid"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// ---------- repositories ----------

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	createErr error
	updateErr []error
	updates   int

	// beforeProfileUpdate runs once ahead of the next UpdateProfile, letting a
	// test interleave another write between read and write.
	beforeProfileUpdate func()
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) add(user *entity.User) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	clone := *user
	r.users[user.ID] = &clone
	return user
}

func (r *fakeUserRepo) get(id uuid.UUID) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	clone := *user
	return &clone
}

func (r *fakeUserRepo) byEmail(email string) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone
		}
	}
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) find(match func(*entity.User) bool) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if match(user) {
			clone := *user
			return &clone
		}
	}
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.get(id), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.byEmail(email), nil
}

func (r *fakeUserRepo) FindByWhatsapp(_ context.Context, phone string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Whatsapp != nil && *u.Whatsapp == phone }), nil
}

func (r *fakeUserRepo) FindByVerificationCode(_ context.Context, codeHash string, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool {
		return u.VerificationCodeHash != nil && *u.VerificationCodeHash == codeHash && (email == "" || u.Email == email)
	}), nil
}

func (r *fakeUserRepo) FindByVerificationToken(_ context.Context, tokenHash string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool {
		return u.VerificationTokenHash != nil && *u.VerificationTokenHash == tokenHash
	}), nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user *entity.User) error {
	if r.beforeProfileUpdate != nil {
		hook := r.beforeProfileUpdate
		r.beforeProfileUpdate = nil
		hook()
	}
	r.mu.Lock()
	r.updates++
	var err error
	if len(r.updateErr) > 0 {
		err = r.updateErr[0]
		r.updateErr = r.updateErr[1:]
	}
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if user.Whatsapp != nil {
		owner, _ := r.FindByWhatsapp(context.Background(), *user.Whatsapp)
		if owner != nil && owner.ID != user.ID {
			return repository.ErrPhoneTaken
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return nil
	}
	stored.Name = user.Name
	stored.PartnerName = user.PartnerName
	stored.PasswordHash = user.PasswordHash
	stored.Whatsapp = user.Whatsapp
	stored.WeddingDate = user.WeddingDate
	stored.ProfileImage = user.ProfileImage
	stored.VerificationCodeHash = user.VerificationCodeHash
	stored.VerificationTokenHash = user.VerificationTokenHash
	stored.VerificationExpiresAt = user.VerificationExpiresAt
	stored.EmailVerifiedAt = user.EmailVerifiedAt
	return nil
}

func (r *fakeUserRepo) UpdatePlan(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return nil
	}
	stored.Status = user.Status
	stored.PlanID = user.PlanID
	stored.SubscriptionStart = user.SubscriptionStart
	stored.SubscriptionEnd = user.SubscriptionEnd
	return nil
}

func (r *fakeUserRepo) Activate(_ context.Context, user *entity.User, verifiedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok || stored.Status != entity.UserStatusPaid {
		return false, nil
	}
	if !samePtr(stored.VerificationCodeHash, user.VerificationCodeHash) || !samePtr(stored.VerificationTokenHash, user.VerificationTokenHash) {
		return false, nil
	}
	stored.Status = entity.UserStatusActive
	stored.EmailVerifiedAt = &verifiedAt
	stored.VerificationCodeHash = nil
	stored.VerificationTokenHash = nil
	stored.VerificationExpiresAt = nil
	return true, nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []entity.User
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type fakePlanRepo struct {
	plans map[uuid.UUID]*entity.Plan
}

func newFakePlanRepo(plans ...*entity.Plan) *fakePlanRepo {
	repo := &fakePlanRepo{plans: make(map[uuid.UUID]*entity.Plan)}
	for _, plan := range plans {
		repo.plans[plan.ID] = plan
	}
	return repo
}

func (r *fakePlanRepo) Create(_ context.Context, plan *entity.Plan) error {
	for _, existing := range r.plans {
		if existing.Name == plan.Name {
			return repository.ErrDuplicateKey
		}
	}
	plan.ID = uuid.New()
	r.plans[plan.ID] = plan
	return nil
}

func (r *fakePlanRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, nil
	}
	clone := *plan
	return &clone, nil
}

func (r *fakePlanRepo) List(_ context.Context) ([]entity.Plan, error) {
	var plans []entity.Plan
	for _, plan := range r.plans {
		plans = append(plans, *plan)
	}
	return plans, nil
}

func (r *fakePlanRepo) Update(_ context.Context, plan *entity.Plan) error {
	for id, existing := range r.plans {
		if id != plan.ID && existing.Name == plan.Name {
			return repository.ErrDuplicateKey
		}
	}
	clone := *plan
	r.plans[plan.ID] = &clone
	return nil
}

type fakeSubscriptionRepo struct {
	mu    sync.Mutex
	byRef map[string]*entity.Subscription
	plans *fakePlanRepo

	// hideOnce makes the next FindByReference miss, simulating a concurrent
	// verifier that has not committed yet.
	hideOnce  bool
	createErr error
}

func newFakeSubscriptionRepo(plans *fakePlanRepo) *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{byRef: make(map[string]*entity.Subscription), plans: plans}
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, s *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byRef[s.PaystackReference]; ok {
		return repository.ErrDuplicateKey
	}
	s.ID = uuid.New()
	clone := *s
	r.byRef[s.PaystackReference] = &clone
	return nil
}

func (r *fakeSubscriptionRepo) FindByReference(_ context.Context, reference string) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideOnce {
		r.hideOnce = false
		return nil, nil
	}
	s, ok := r.byRef[reference]
	if !ok {
		return nil, nil
	}
	clone := *s
	if r.plans != nil {
		if plan, ok := r.plans.plans[s.PlanID]; ok {
			clone.Plan = *plan
		}
	}
	return &clone, nil
}

func (r *fakeSubscriptionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byRef)
}

// fakeTransactor applies writes directly and rolls the user table back when
// the callback fails.
type fakeTransactor struct {
	users         *fakeUserRepo
	subscriptions *fakeSubscriptionRepo
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(tx repository.Tx) error) error {
	t.users.mu.Lock()
	snapshot := make(map[uuid.UUID]*entity.User, len(t.users.users))
	for id, user := range t.users.users {
		clone := *user
		snapshot[id] = &clone
	}
	t.users.mu.Unlock()

	err := fn(repository.Tx{Users: t.users, Subscriptions: t.subscriptions})
	if err != nil {
		t.users.mu.Lock()
		t.users.users = snapshot
		t.users.mu.Unlock()
	}
	return err
}

type fakePaymentLogRepo struct {
	logs []entity.PaymentLog
}

func (r *fakePaymentLogRepo) Log(_ context.Context, log *entity.PaymentLog) error {
	r.logs = append(r.logs, *log)
	return nil
}

type fakePageRepo struct {
	pages   []entity.WeddingPage
	loadErr error
}

func (r *fakePageRepo) EachLiveBatch(ctx context.Context, batchSize int, fn func(pages []entity.WeddingPage) error) error {
	if r.loadErr != nil {
		return r.loadErr
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	for start := 0; start < len(r.pages); start += batchSize {
		end := start + batchSize
		if end > len(r.pages) {
			end = len(r.pages)
		}
		batch := make([]entity.WeddingPage, end-start)
		copy(batch, r.pages[start:end])
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}

// ---------- collaborators ----------

type fakeGateway struct {
	transactions map[string]*paystack.Transaction
	verifyErr    error
	verifyCalls  int
	initReq      paystack.InitializeRequest
	initResult   *paystack.InitializeResult
	initErr      error
}

func (g *fakeGateway) InitializeTransaction(_ context.Context, req paystack.InitializeRequest) (*paystack.InitializeResult, error) {
	g.initReq = req
	if g.initErr != nil {
		return nil, g.initErr
	}
	return g.initResult, nil
}

func (g *fakeGateway) VerifyTransaction(_ context.Context, reference string) (*paystack.Transaction, error) {
	g.verifyCalls++
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	tx, ok := g.transactions[reference]
	if !ok {
		return nil, paystack.ErrTransactionNotFound
	}
	return tx, nil
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []EmailMessage
	// failFor makes Send fail for the listed recipients.
	failFor map[string]error
}

func (s *fakeEmailSender) Send(_ context.Context, message EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[message.To]; ok {
		return err
	}
	s.sent = append(s.sent, message)
	return nil
}

func (s *fakeEmailSender) to(recipient string) []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var messages []EmailMessage
	for _, m := range s.sent {
		if m.To == recipient {
			messages = append(messages, m)
		}
	}
	return messages
}

type fakeMessenger struct {
	sent []string
	err  error
}

func (m *fakeMessenger) SendWhatsApp(_ context.Context, to string, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+": "+body)
	return nil
}

type fakeImageStore struct {
	keys    []string
	deleted []string
}

func (s *fakeImageStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeImageStore) Upload(_ context.Context, key string, _ string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type fakeLedger struct {
	claims   map[string]bool
	err      error
	released int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{claims: make(map[string]bool)}
}

func (l *fakeLedger) key(pageID uuid.UUID, kind ReminderKind, day string) string {
	return string(kind) + ":" + pageID.String() + ":" + day
}

func (l *fakeLedger) Claim(_ context.Context, pageID uuid.UUID, kind ReminderKind, day string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	key := l.key(pageID, kind, day)
	if l.claims[key] {
		return false, nil
	}
	l.claims[key] = true
	return true, nil
}

func (l *fakeLedger) Release(_ context.Context, pageID uuid.UUID, kind ReminderKind, day string) error {
	l.released++
	delete(l.claims, l.key(pageID, kind, day))
	return nil
}

type fakePublisher struct {
	subjects []string
}

func (p *fakePublisher) Publish(_ context.Context, subject string, _ any) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

// plainHasher keeps tests fast; bcrypt is covered separately.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Verify(hash string, password string) bool {
	return hash == "hashed:"+password
}

type fakeIssuer struct{}

func (fakeIssuer) IssueAccessToken(user entity.User) (string, time.Duration, error) {
	return "access-" + user.ID.String(), time.Hour, nil
}

var errSendFailed = errors.New("send failed")
