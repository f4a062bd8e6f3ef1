package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/livetrack/support-service/internal/domain"
	"github.com/livetrack/support-service/internal/events"
	"github.com/livetrack/support-service/internal/repository"
	"github.com/livetrack/support-service/internal/storage"
)

// In-memory repository fakes backing the service tests. They mirror the SQL
// behavior the pgx repositories rely on, pgx.ErrNoRows included.

type fakeAdminRepo struct {
	seq    int
	admins map[string]*domain.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]*domain.Admin{}}
}

func (r *fakeAdminRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("admin-%d", r.seq)
}

func (r *fakeAdminRepo) add(admin *domain.Admin) *domain.Admin {
	if admin.ID == "" {
		admin.ID = r.nextID()
	}
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	r.admins[admin.ID] = admin
	return admin
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	r.add(admin)
	return nil
}

func (r *fakeAdminRepo) Update(_ context.Context, admin *domain.Admin) error {
	stored, ok := r.admins[admin.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Username = admin.Username
	stored.FullName = admin.FullName
	stored.Phone = admin.Phone
	stored.Location = admin.Location
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeAdminRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	stored, ok := r.admins[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.PasswordHash = passwordHash
	return nil
}

func (r *fakeAdminRepo) SetActive(_ context.Context, id string, active bool) error {
	stored, ok := r.admins[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Active = active
	return nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	stored, ok := r.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeAdminRepo) GetByUsername(_ context.Context, username string) (*domain.Admin, error) {
	for _, stored := range r.admins {
		if stored.Username == username {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Admin, error) {
	var result []domain.Admin
	for _, id := range ids {
		if stored, ok := r.admins[id]; ok {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *fakeAdminRepo) List(_ context.Context) ([]domain.Admin, error) {
	var result []domain.Admin
	for _, stored := range r.admins {
		result = append(result, *stored)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeCustomerRepo struct {
	seq       int
	customers map[string]*domain.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[string]*domain.Customer{}}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.seq++
	customer.ID = fmt.Sprintf("customer-%d", r.seq)
	customer.CreatedAt = time.Now()
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	if _, ok := r.customers[customer.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.customers[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	stored, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ repository.CustomerFilter) ([]domain.Customer, error) {
	var result []domain.Customer
	for _, stored := range r.customers {
		result = append(result, *stored)
	}
	return result, nil
}

type fakeDistributorRepo struct {
	seq          int
	distributors map[string]*domain.Distributor
}

func newFakeDistributorRepo() *fakeDistributorRepo {
	return &fakeDistributorRepo{distributors: map[string]*domain.Distributor{}}
}

func (r *fakeDistributorRepo) Create(_ context.Context, distributor *domain.Distributor) error {
	r.seq++
	distributor.ID = fmt.Sprintf("distributor-%d", r.seq)
	distributor.CreatedAt = time.Now()
	copied := *distributor
	r.distributors[distributor.ID] = &copied
	return nil
}

func (r *fakeDistributorRepo) GetByID(_ context.Context, id string) (*domain.Distributor, error) {
	stored, ok := r.distributors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeDistributorRepo) List(_ context.Context) ([]domain.Distributor, error) {
	var result []domain.Distributor
	for _, stored := range r.distributors {
		result = append(result, *stored)
	}
	return result, nil
}

type fakeTicketRepo struct {
	seq     int
	tickets map[string]*domain.Ticket
	replies *fakeReplyRepo
}

func newFakeTicketRepo(replies *fakeReplyRepo) *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}, replies: replies}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, stored := range r.tickets {
		if !filter.IncludeArchived && stored.IsArchived {
			continue
		}
		if filter.Status != nil && stored.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && stored.Priority != *filter.Priority {
			continue
		}
		result = append(result, *stored)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeTicketRepo) ListInvolvingAdmin(_ context.Context, adminID string) ([]domain.Ticket, error) {
	performed := map[string]bool{}
	for _, reply := range r.replies.replies {
		for _, performer := range r.replies.performers[reply.ID] {
			if performer == adminID {
				performed[reply.TicketID] = true
			}
		}
	}

	var result []domain.Ticket
	for _, stored := range r.tickets {
		created := stored.CreatedByAdminID != nil && *stored.CreatedByAdminID == adminID
		if created || performed[stored.ID] {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) SetStatus(_ context.Context, id string, status domain.TicketStatus) error {
	stored, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTicketRepo) StampClosed(_ context.Context, id, adminID string, at time.Time) error {
	stored, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	// Write-once, matching the closed_at IS NULL guard in SQL.
	if stored.ClosedAt != nil {
		return nil
	}
	stored.ClosedAt = &at
	stored.ClosedByAdminID = &adminID
	return nil
}

func (r *fakeTicketRepo) Patch(_ context.Context, id string, patch repository.TicketPatch) error {
	stored, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if patch.Priority != nil {
		stored.Priority = *patch.Priority
	}
	if patch.AvailabilityTime != nil {
		stored.AvailabilityTime = patch.AvailabilityTime
	}
	if patch.AssignedAdminID != nil {
		stored.AssignedAdminID = patch.AssignedAdminID
	}
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTicketRepo) SetArchived(_ context.Context, id string, archived bool) error {
	stored, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.IsArchived = archived
	return nil
}

func (r *fakeTicketRepo) CountByStatus(_ context.Context) (map[domain.TicketStatus]int64, error) {
	counts := map[domain.TicketStatus]int64{}
	for _, stored := range r.tickets {
		counts[stored.Status]++
	}
	return counts, nil
}

type fakeReplyRepo struct {
	seq        int
	admins     *fakeAdminRepo
	replies    []*domain.TicketReply
	performers map[string][]string
}

func newFakeReplyRepo(admins *fakeAdminRepo) *fakeReplyRepo {
	return &fakeReplyRepo{admins: admins, performers: map[string][]string{}}
}

func (r *fakeReplyRepo) Create(_ context.Context, reply *domain.TicketReply) error {
	r.seq++
	reply.ID = fmt.Sprintf("reply-%d", r.seq)
	reply.CreatedAt = time.Now()
	copied := *reply
	copied.Performers = nil
	copied.Attachments = nil
	r.replies = append(r.replies, &copied)
	return nil
}

func (r *fakeReplyRepo) AddPerformers(_ context.Context, replyID string, adminIDs []string) error {
	r.performers[replyID] = append(r.performers[replyID], adminIDs...)
	return nil
}

func (r *fakeReplyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketReply, error) {
	var result []domain.TicketReply
	for _, reply := range r.replies {
		if reply.TicketID == ticketID {
			result = append(result, *reply)
		}
	}
	return result, nil
}

func (r *fakeReplyRepo) ListPerformers(ctx context.Context, replyID string) ([]domain.Admin, error) {
	return r.admins.GetByIDs(ctx, r.performers[replyID])
}

func (r *fakeReplyRepo) CountDoneByAdmin(_ context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, reply := range r.replies {
		if reply.Status != domain.TicketStatusDone {
			continue
		}
		for _, adminID := range r.performers[reply.ID] {
			counts[adminID]++
		}
	}
	return counts, nil
}

type fakeAttachmentRepo struct {
	seq         int
	attachments []*domain.ReplyAttachment
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{}
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.ReplyAttachment) error {
	r.seq++
	attachment.ID = fmt.Sprintf("attachment-%d", r.seq)
	attachment.CreatedAt = time.Now()
	copied := *attachment
	r.attachments = append(r.attachments, &copied)
	return nil
}

func (r *fakeAttachmentRepo) ListByReply(_ context.Context, replyID string) ([]domain.ReplyAttachment, error) {
	var result []domain.ReplyAttachment
	for _, attachment := range r.attachments {
		if attachment.ReplyID == replyID {
			result = append(result, *attachment)
		}
	}
	return result, nil
}

// fakeTxRunner hands the same stores to the callback. The service fails
// before its first write on every validation path, so rollback simulation is
// not needed for these tests.
type fakeTxRunner struct {
	stores repository.Stores
}

func (r *fakeTxRunner) InTx(_ context.Context, fn func(repository.Stores) error) error {
	return fn(r.stores)
}

type fakeBlobStore struct {
	stored []string
}

func (s *fakeBlobStore) Store(_ context.Context, fileName string, r io.Reader) (*storage.StoredBlob, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	s.stored = append(s.stored, fileName)
	return &storage.StoredBlob{
		Key:       "blob_" + fileName,
		URL:       "/media/ticket_replies/blob_" + fileName,
		CreatedAt: time.Now(),
	}, nil
}

type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

// testEnv wires a full fake-backed service set.
type testEnv struct {
	admins       *fakeAdminRepo
	customers    *fakeCustomerRepo
	distributors *fakeDistributorRepo
	tickets      *fakeTicketRepo
	replies      *fakeReplyRepo
	attachments  *fakeAttachmentRepo
	blobs        *fakeBlobStore
	dispatcher   *recordingDispatcher
	stores       repository.Stores
	ticketSvc    *TicketService
}

func newTestEnv() *testEnv {
	admins := newFakeAdminRepo()
	replies := newFakeReplyRepo(admins)
	env := &testEnv{
		admins:       admins,
		customers:    newFakeCustomerRepo(),
		distributors: newFakeDistributorRepo(),
		tickets:      newFakeTicketRepo(replies),
		replies:      replies,
		attachments:  newFakeAttachmentRepo(),
		blobs:        &fakeBlobStore{},
		dispatcher:   &recordingDispatcher{},
	}
	env.stores = repository.Stores{
		Admins:       env.admins,
		Customers:    env.customers,
		Distributors: env.distributors,
		Tickets:      env.tickets,
		Replies:      env.replies,
		Attachments:  env.attachments,
	}
	env.ticketSvc = NewTicketService(TicketDependencies{
		Stores:     env.stores,
		TxRunner:   &fakeTxRunner{stores: env.stores},
		Blobs:      env.blobs,
		Cache:      nil,
		Dispatcher: env.dispatcher,
	})
	return env
}

func (e *testEnv) addAdmin(role domain.Role) *domain.Admin {
	admin := e.admins.add(&domain.Admin{
		Username:     fmt.Sprintf("user%d", e.admins.seq+1),
		PasswordHash: "$2a$12$hash",
		Role:         role,
		FullName:     "Test Operator",
		Active:       true,
	})
	return admin
}

func (e *testEnv) addDistributor(name string) *domain.Distributor {
	distributor := &domain.Distributor{Name: name}
	_ = e.distributors.Create(context.Background(), distributor)
	return distributor
}

func (e *testEnv) addCustomer(distributorID *string) *domain.Customer {
	customer := &domain.Customer{
		DistributorID: distributorID,
		FullName:      "Sub Scriber",
		Phone:         "0912000000",
		Location:      "Block 4",
	}
	_ = e.customers.Create(context.Background(), customer)
	return customer
}

func (e *testEnv) addTicket(status domain.TicketStatus, createdBy *string) *domain.Ticket {
	ticket := &domain.Ticket{
		TicketType:       domain.TicketTypeMaintenance,
		Priority:         domain.TicketPriorityNormal,
		Status:           status,
		CustomerID:       "customer-1",
		CreatedByAdminID: createdBy,
		Snapshot:         domain.CustomerSnapshot{FullName: "Sub Scriber"},
	}
	_ = e.tickets.Create(context.Background(), ticket)
	return ticket
}
