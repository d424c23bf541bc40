package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/epic-events/crm-system/internal/core/domain"
	"github.com/epic-events/crm-system/internal/core/ports"
)

// memDB is a single in-memory dataset shared by the stub repositories so
// cross-entity behaviour (deletion cascades, ownership lookups) is exercised
// against real state.
type memDB struct {
	users     map[int64]*domain.User
	clients   map[int64]*domain.Client
	contracts map[int64]*domain.Contract
	events    map[int64]*domain.Event
	seq       int64

	// failure injection for rollback and fault-propagation tests
	failUserDelete  bool
	failClearEvents bool
	failClientFind  bool
}

var errInjected = errors.New("injected storage failure")

func newMemDB() *memDB {
	return &memDB{
		users:     map[int64]*domain.User{},
		clients:   map[int64]*domain.Client{},
		contracts: map[int64]*domain.Contract{},
		events:    map[int64]*domain.Event{},
	}
}

func (d *memDB) nextID() int64 {
	d.seq++
	return d.seq
}

func strp(v string) *string { return &v }

func cloneI64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// snapshot deep-copies the dataset so stubUoW can roll back on error the
// way a real transaction would.
func (d *memDB) snapshot() *memDB {
	s := newMemDB()
	s.seq = d.seq
	for id, u := range d.users {
		cp := *u
		s.users[id] = &cp
	}
	for id, c := range d.clients {
		cp := *c
		cp.BusinessName = cloneStr(c.BusinessName)
		cp.Telephone = cloneStr(c.Telephone)
		cp.CommercialContactID = cloneI64(c.CommercialContactID)
		s.clients[id] = &cp
	}
	for id, c := range d.contracts {
		cp := *c
		cp.CommercialContactID = cloneI64(c.CommercialContactID)
		s.contracts[id] = &cp
	}
	for id, e := range d.events {
		cp := *e
		cp.Notes = cloneStr(e.Notes)
		cp.Location = cloneStr(e.Location)
		cp.SupportContactID = cloneI64(e.SupportContactID)
		s.events[id] = &cp
	}
	return s
}

func (d *memDB) restore(s *memDB) {
	d.users = s.users
	d.clients = s.clients
	d.contracts = s.contracts
	d.events = s.events
	d.seq = s.seq
}

// stubUoW mimics transactional semantics: on error the dataset reverts to
// its pre-call snapshot.
type stubUoW struct {
	db *memDB
}

func (u *stubUoW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	before := u.db.snapshot()
	if err := fn(ctx); err != nil {
		u.db.restore(before)
		return err
	}
	return nil
}

// --- user repository -------------------------------------------------------

type memUserRepo struct {
	db *memDB
}

func (r *memUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	cp := *u
	cp.ID = r.db.nextID()
	r.db.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUserRepo) Update(ctx context.Context, u *domain.User) error {
	if _, ok := r.db.users[u.ID]; !ok {
		return domain.IDError(domain.KindContactNotFound, u.ID)
	}
	cp := *u
	r.db.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id int64) error {
	if r.db.failUserDelete {
		return errInjected
	}
	if _, ok := r.db.users[id]; !ok {
		return domain.IDError(domain.KindContactNotFound, id)
	}
	delete(r.db.users, id)
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.IDError(domain.KindContactNotFound, id)
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.FieldError(domain.KindContactNotFound, "username")
}

func (r *memUserRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := r.db.users[id]
	return ok, nil
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	for _, u := range r.db.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for _, u := range r.db.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.db.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- client repository ------------------------------------------------------

type memClientRepo struct {
	db *memDB
}

func (r *memClientRepo) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	cp := *c
	cp.ID = r.db.nextID()
	r.db.clients[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memClientRepo) Update(ctx context.Context, c *domain.Client) error {
	if _, ok := r.db.clients[c.ID]; !ok {
		return domain.IDError(domain.KindClientNotFound, c.ID)
	}
	cp := *c
	r.db.clients[c.ID] = &cp
	return nil
}

func (r *memClientRepo) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	if r.db.failClientFind {
		return nil, errInjected
	}
	c, ok := r.db.clients[id]
	if !ok {
		return nil, domain.IDError(domain.KindClientNotFound, id)
	}
	cp := *c
	cp.BusinessName = cloneStr(c.BusinessName)
	cp.Telephone = cloneStr(c.Telephone)
	cp.CommercialContactID = cloneI64(c.CommercialContactID)
	return &cp, nil
}

func (r *memClientRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := r.db.clients[id]
	return ok, nil
}

func (r *memClientRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for _, c := range r.db.clients {
		if c.Email == email && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	var out []*domain.Client
	for _, c := range r.db.clients {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memClientRepo) ClearCommercialContact(ctx context.Context, userID int64) (int64, error) {
	var n int64
	for _, c := range r.db.clients {
		if c.CommercialContactID != nil && *c.CommercialContactID == userID {
			c.CommercialContactID = nil
			n++
		}
	}
	return n, nil
}

// --- contract repository ----------------------------------------------------

type memContractRepo struct {
	db *memDB
}

func (r *memContractRepo) Create(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	cp := *c
	cp.ID = r.db.nextID()
	r.db.contracts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memContractRepo) Update(ctx context.Context, c *domain.Contract) error {
	if _, ok := r.db.contracts[c.ID]; !ok {
		return domain.IDError(domain.KindContractNotFound, c.ID)
	}
	cp := *c
	r.db.contracts[c.ID] = &cp
	return nil
}

func (r *memContractRepo) FindByID(ctx context.Context, id int64) (*domain.Contract, error) {
	c, ok := r.db.contracts[id]
	if !ok {
		return nil, domain.IDError(domain.KindContractNotFound, id)
	}
	cp := *c
	cp.CommercialContactID = cloneI64(c.CommercialContactID)
	return &cp, nil
}

func (r *memContractRepo) List(ctx context.Context, filter ports.ContractFilter) ([]*domain.Contract, error) {
	var out []*domain.Contract
	for _, c := range r.db.contracts {
		if filter.Pending && !c.Pending() {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memContractRepo) ClearCommercialContact(ctx context.Context, userID int64) (int64, error) {
	var n int64
	for _, c := range r.db.contracts {
		if c.CommercialContactID != nil && *c.CommercialContactID == userID {
			c.CommercialContactID = nil
			n++
		}
	}
	return n, nil
}

// --- event repository -------------------------------------------------------

type memEventRepo struct {
	db *memDB
}

func (r *memEventRepo) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	cp := *e
	cp.ID = r.db.nextID()
	r.db.events[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := r.db.events[e.ID]; !ok {
		return domain.IDError(domain.KindEventNotFound, e.ID)
	}
	cp := *e
	r.db.events[e.ID] = &cp
	return nil
}

func (r *memEventRepo) FindByID(ctx context.Context, id int64) (*domain.Event, error) {
	e, ok := r.db.events[id]
	if !ok {
		return nil, domain.IDError(domain.KindEventNotFound, id)
	}
	cp := *e
	cp.Notes = cloneStr(e.Notes)
	cp.Location = cloneStr(e.Location)
	cp.SupportContactID = cloneI64(e.SupportContactID)
	return &cp, nil
}

func (r *memEventRepo) List(ctx context.Context, filter ports.EventFilter) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.db.events {
		if filter.Unassigned && e.SupportContactID != nil {
			continue
		}
		if filter.SupportContactID != nil &&
			(e.SupportContactID == nil || *e.SupportContactID != *filter.SupportContactID) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memEventRepo) ClearSupportContact(ctx context.Context, userID int64) (int64, error) {
	if r.db.failClearEvents {
		return 0, errInjected
	}
	var n int64
	for _, e := range r.db.events {
		if e.SupportContactID != nil && *e.SupportContactID == userID {
			e.SupportContactID = nil
			n++
		}
	}
	return n, nil
}

// --- auth collaborators -----------------------------------------------------

// stubHasher uses a reversible marker so tests can assert hashing happened
// without paying for bcrypt.
type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (stubHasher) Verify(plaintext, digest string) bool {
	return digest == "hashed:"+plaintext
}

type stubThrottle struct {
	failures map[string]int
	limit    int
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: map[string]int{}, limit: limit}
}

func (t *stubThrottle) TooManyFailures(ctx context.Context, username string) (bool, error) {
	return t.failures[username] >= t.limit, nil
}

func (t *stubThrottle) RecordFailure(ctx context.Context, username string) error {
	t.failures[username]++
	return nil
}

func (t *stubThrottle) Reset(ctx context.Context, username string) error {
	delete(t.failures, username)
	return nil
}

type stubSessionStore struct {
	token string
	saved bool
}

func (s *stubSessionStore) Save(token string) error {
	s.token = token
	s.saved = true
	return nil
}

func (s *stubSessionStore) Load() (string, bool, error) {
	return s.token, s.saved, nil
}

func (s *stubSessionStore) Clear() error {
	s.token = ""
	s.saved = false
	return nil
}

// --- fixture ----------------------------------------------------------------

// fixture bundles the dataset, repositories and services under test.
type fixture struct {
	db        *memDB
	users     *memUserRepo
	clients   *memClientRepo
	contracts *memContractRepo
	events    *memEventRepo

	userSvc     *UserService
	clientSvc   *ClientService
	contractSvc *ContractService
	eventSvc    *EventService
}

func newFixture() *fixture {
	db := newMemDB()
	f := &fixture{
		db:        db,
		users:     &memUserRepo{db: db},
		clients:   &memClientRepo{db: db},
		contracts: &memContractRepo{db: db},
		events:    &memEventRepo{db: db},
	}
	uow := &stubUoW{db: db}
	log := zerolog.Nop()
	f.userSvc = NewUserService(f.users, f.clients, f.contracts, f.events, stubHasher{}, uow, log)
	f.clientSvc = NewClientService(f.clients, f.users, uow, log)
	f.contractSvc = NewContractService(f.contracts, f.clients, f.users, uow, log)
	f.eventSvc = NewEventService(f.events, f.clients, f.users, uow, log)
	return f
}

func (f *fixture) addUser(username string, role domain.Role) *domain.User {
	u := &domain.User{
		Username:     username,
		FirstName:    username,
		LastName:     "Doe",
		Email:        username + "@epic.events",
		Role:         role,
		PasswordHash: "hashed:secret",
	}
	u, _ = f.users.Create(context.Background(), u)
	return u
}

func (f *fixture) addClient(email string, owner *int64) *domain.Client {
	now := time.Now().UTC()
	c := &domain.Client{
		FirstName:           "Kevin",
		LastName:            "Casey",
		Email:               email,
		FirstContact:        now,
		LastUpdate:          now,
		CommercialContactID: cloneI64(owner),
	}
	c, _ = f.clients.Create(context.Background(), c)
	return c
}

func (f *fixture) addContract(clientID int64, owner *int64, total, rest float64, signed bool) *domain.Contract {
	c := &domain.Contract{
		TotalPrice:          total,
		RestToPay:           rest,
		Signed:              signed,
		Creation:            time.Now().UTC(),
		ClientID:            clientID,
		CommercialContactID: cloneI64(owner),
	}
	c, _ = f.contracts.Create(context.Background(), c)
	return c
}

func (f *fixture) addEvent(clientID int64, support *int64) *domain.Event {
	start := time.Now().UTC().Add(48 * time.Hour)
	e := &domain.Event{
		Name:             "Launch party",
		StartDatetime:    start,
		EndDatetime:      start.Add(4 * time.Hour),
		Attendees:        50,
		ClientID:         clientID,
		SupportContactID: cloneI64(support),
	}
	e, _ = f.events.Create(context.Background(), e)
	return e
}

// sessionFor returns a fresh authenticated session for the user.
func sessionFor(u *domain.User) *domain.Session {
	return domain.NewSession(u, time.Now().UTC())
}

// expiredSession returns a session past its lifetime.
func expiredSession(u *domain.User) *domain.Session {
	return domain.NewSession(u, time.Now().UTC().Add(-domain.SessionTTL-time.Minute))
}
