package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
)

// In-memory repositories for service tests. Ids are sequential per store.

type idSeq struct {
	mu sync.Mutex
	n  int
}

func (s *idSeq) next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%d", prefix, s.n)
}

type fakeUserRepo struct {
	ids   idSeq
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	u.ID = r.ids.next("user-")
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, up domain.ProfileUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if up.Name != nil {
		u.Name = *up.Name
	}
	if up.Age != nil {
		u.Age = up.Age
	}
	if up.Height != nil {
		u.Height = up.Height
	}
	if up.Weight != nil {
		u.Weight = up.Weight
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id, role string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ domain.Page) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) CountSignupsByDay(context.Context, time.Time, time.Time) ([]domain.DailyCount, error) {
	return []domain.DailyCount{{Date: "2025-03-14", Count: 2}}, nil
}

type fakeRefreshTokenRepo struct {
	tokens map[string]*domain.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, t *domain.RefreshToken) error {
	r.tokens[t.TokenHash] = t
	return nil
}

func (r *fakeRefreshTokenRepo) FindByHash(_ context.Context, hash string) (*domain.RefreshToken, error) {
	return r.tokens[hash], nil
}

func (r *fakeRefreshTokenRepo) RevokeByHash(_ context.Context, hash string) error {
	if t, ok := r.tokens[hash]; ok {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID string) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) activeFor(userID string) int {
	n := 0
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			n++
		}
	}
	return n
}

type fakeBlacklist struct {
	revoked map[string]time.Duration
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: make(map[string]time.Duration)}
}

func (b *fakeBlacklist) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	b.revoked[jti] = ttl
	return nil
}

func (b *fakeBlacklist) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := b.revoked[jti]
	return ok, nil
}

type fakeRecordRepo struct {
	ids     idSeq
	records []*domain.HealthRecord
}

func (r *fakeRecordRepo) Create(_ context.Context, rec *domain.HealthRecord) error {
	rec.ID = r.ids.next("rec-")
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRecordRepo) GetByID(_ context.Context, userID, id string) (*domain.HealthRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRecordRepo) GetLatest(_ context.Context, userID string) (*domain.HealthRecord, error) {
	var latest *domain.HealthRecord
	for _, rec := range r.records {
		if rec.UserID == userID && (latest == nil || rec.CreatedAt.After(latest.CreatedAt)) {
			latest = rec
		}
	}
	return latest, nil
}

func (r *fakeRecordRepo) List(_ context.Context, userID string, _ domain.DateRange, _ domain.Page) ([]*domain.HealthRecord, int64, error) {
	out := r.byUser(userID)
	return out, int64(len(out)), nil
}

func (r *fakeRecordRepo) ListBetween(_ context.Context, userID string, from, to time.Time) ([]*domain.HealthRecord, error) {
	var out []*domain.HealthRecord
	for _, rec := range r.byUser(userID) {
		if !rec.CreatedAt.Before(from) && !rec.CreatedAt.After(to) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRecordRepo) Update(_ context.Context, rec *domain.HealthRecord) error {
	for i, existing := range r.records {
		if existing.ID == rec.ID && existing.UserID == rec.UserID {
			r.records[i] = rec
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRecordRepo) Delete(_ context.Context, userID, id string) error {
	for i, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRecordRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	return int64(len(r.byUser(userID))), nil
}

func (r *fakeRecordRepo) SearchNotes(_ context.Context, userID, pattern string, _ domain.Page) ([]*domain.HealthRecord, int64, error) {
	var out []*domain.HealthRecord
	for _, rec := range r.byUser(userID) {
		if strings.Contains(strings.ToLower(rec.Note), strings.ToLower(pattern)) {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRecordRepo) CountAll(context.Context) (int64, error) {
	return int64(len(r.records)), nil
}

func (r *fakeRecordRepo) CountByDay(context.Context, time.Time, time.Time) ([]domain.DailyCount, error) {
	return []domain.DailyCount{{Date: "2025-03-14", Count: 3}}, nil
}

func (r *fakeRecordRepo) byUser(userID string) []*domain.HealthRecord {
	var out []*domain.HealthRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out
}

type fakeChatRepo struct {
	ids      idSeq
	chats    []*domain.ChatHistory
	searched []domain.ChatSearch
}

func (r *fakeChatRepo) Create(_ context.Context, c *domain.ChatHistory) error {
	c.ID = r.ids.next("chat-")
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.chats = append(r.chats, c)
	return nil
}

// Recent returns newest first, like the Mongo repository
func (r *fakeChatRepo) Recent(_ context.Context, userID string, n int) ([]*domain.ChatHistory, error) {
	var out []*domain.ChatHistory
	for i := len(r.chats) - 1; i >= 0 && len(out) < n; i-- {
		if r.chats[i].UserID == userID {
			out = append(out, r.chats[i])
		}
	}
	return out, nil
}

func (r *fakeChatRepo) List(_ context.Context, userID string, _ domain.Page) ([]*domain.ChatHistory, int64, error) {
	out, _ := r.Recent(context.Background(), userID, len(r.chats))
	return out, int64(len(out)), nil
}

func (r *fakeChatRepo) ListBetween(_ context.Context, userID string, from, to time.Time) ([]*domain.ChatHistory, error) {
	var out []*domain.ChatHistory
	for _, c := range r.chats {
		if c.UserID == userID && !c.CreatedAt.Before(from) && !c.CreatedAt.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) Search(_ context.Context, _ string, search domain.ChatSearch, _ domain.Page) ([]*domain.ChatHistory, int64, error) {
	r.searched = append(r.searched, search)
	return nil, 2, nil
}

func (r *fakeChatRepo) Rate(_ context.Context, userID, id string, rating int) (*domain.ChatHistory, error) {
	for _, c := range r.chats {
		if c.ID == id && c.UserID == userID {
			c.Rating = &rating
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeChatRepo) Delete(_ context.Context, userID, id string) error {
	for i, c := range r.chats {
		if c.ID == id && c.UserID == userID {
			r.chats = append(r.chats[:i], r.chats[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeChatRepo) DeleteAllByUser(_ context.Context, userID string) (int64, error) {
	var kept []*domain.ChatHistory
	var n int64
	for _, c := range r.chats {
		if c.UserID == userID {
			n++
			continue
		}
		kept = append(kept, c)
	}
	r.chats = kept
	return n, nil
}

func (r *fakeChatRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, c := range r.chats {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeChatRepo) CountAll(context.Context) (int64, error) {
	return int64(len(r.chats)), nil
}

func (r *fakeChatRepo) CountByDay(context.Context, time.Time, time.Time) ([]domain.DailyCount, error) {
	return []domain.DailyCount{{Date: "2025-03-15", Count: 1}}, nil
}

type fakeGoalRepo struct {
	ids   idSeq
	goals map[string]*domain.HealthGoal
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[string]*domain.HealthGoal)}
}

func (r *fakeGoalRepo) Create(_ context.Context, g *domain.HealthGoal) error {
	g.ID = r.ids.next("goal-")
	cp := *g
	r.goals[g.ID] = &cp
	return nil
}

func (r *fakeGoalRepo) GetByID(_ context.Context, userID, id string) (*domain.HealthGoal, error) {
	g, ok := r.goals[id]
	if !ok || g.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGoalRepo) List(context.Context, string, domain.GoalFilter, domain.Page) ([]*domain.HealthGoal, int64, error) {
	return nil, 0, nil
}

func (r *fakeGoalRepo) Update(_ context.Context, g *domain.HealthGoal) error {
	cp := *g
	r.goals[g.ID] = &cp
	return nil
}

func (r *fakeGoalRepo) Delete(_ context.Context, _, id string) error {
	delete(r.goals, id)
	return nil
}

func (r *fakeGoalRepo) Counts(context.Context) (domain.GoalCounts, error) {
	return domain.GoalCounts{Total: 4, Active: 3, Completed: 1}, nil
}

type fakeSleepRepo struct {
	ids  idSeq
	logs map[string]*domain.SleepLog
}

func newFakeSleepRepo() *fakeSleepRepo {
	return &fakeSleepRepo{logs: make(map[string]*domain.SleepLog)}
}

func (r *fakeSleepRepo) Create(_ context.Context, l *domain.SleepLog) error {
	l.ID = r.ids.next("sleep-")
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *fakeSleepRepo) GetByID(_ context.Context, userID, id string) (*domain.SleepLog, error) {
	l, ok := r.logs[id]
	if !ok || l.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeSleepRepo) List(context.Context, string, domain.DateRange, domain.Page) ([]*domain.SleepLog, int64, error) {
	return nil, 0, nil
}

func (r *fakeSleepRepo) ListBetween(_ context.Context, userID string, from, to time.Time) ([]*domain.SleepLog, error) {
	var out []*domain.SleepLog
	for _, l := range r.logs {
		if l.UserID == userID && !l.SleepDate.Before(from) && !l.SleepDate.After(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeSleepRepo) Update(_ context.Context, l *domain.SleepLog) error {
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *fakeSleepRepo) Delete(_ context.Context, _, id string) error {
	delete(r.logs, id)
	return nil
}

func (r *fakeSleepRepo) Totals(context.Context) (domain.SleepTotals, error) {
	return domain.SleepTotals{Records: 2, AverageMinutes: 455}, nil
}

type fakeWaterRepo struct {
	ids     idSeq
	intakes []*domain.WaterIntake
}

func (r *fakeWaterRepo) Create(_ context.Context, in *domain.WaterIntake) error {
	in.ID = r.ids.next("water-")
	r.intakes = append(r.intakes, in)
	return nil
}

func (r *fakeWaterRepo) List(context.Context, string, domain.DateRange, domain.Page) ([]*domain.WaterIntake, int64, error) {
	return r.intakes, int64(len(r.intakes)), nil
}

func (r *fakeWaterRepo) ListBetween(_ context.Context, userID string, from, to time.Time) ([]*domain.WaterIntake, error) {
	var out []*domain.WaterIntake
	for _, in := range r.intakes {
		if in.UserID == userID && !in.Date.Before(from) && !in.Date.After(to) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r *fakeWaterRepo) Delete(context.Context, string, string) error {
	return nil
}

func (r *fakeWaterRepo) Totals(context.Context) (domain.WaterTotals, error) {
	return domain.WaterTotals{Records: 3, Amount: 12340}, nil
}

type fakeExerciseRepo struct{}

func (fakeExerciseRepo) Create(context.Context, *domain.ExerciseLog) error { return nil }
func (fakeExerciseRepo) GetByID(context.Context, string, string) (*domain.ExerciseLog, error) {
	return nil, domain.ErrNotFound
}
func (fakeExerciseRepo) List(context.Context, string, domain.ExerciseFilter, domain.Page) ([]*domain.ExerciseLog, int64, error) {
	return nil, 0, nil
}
func (fakeExerciseRepo) ListBetween(context.Context, string, time.Time, time.Time) ([]*domain.ExerciseLog, error) {
	return nil, nil
}
func (fakeExerciseRepo) Update(context.Context, *domain.ExerciseLog) error { return nil }
func (fakeExerciseRepo) Delete(context.Context, string, string) error      { return nil }
func (fakeExerciseRepo) Totals(context.Context) (domain.ExerciseTotals, error) {
	return domain.ExerciseTotals{Records: 5, Duration: 150, Calories: 900, Distance: 12}, nil
}

type fakeReminderRepo struct{}

func (fakeReminderRepo) Create(context.Context, *domain.Reminder) error { return nil }
func (fakeReminderRepo) GetByID(context.Context, string, string) (*domain.Reminder, error) {
	return nil, domain.ErrNotFound
}
func (fakeReminderRepo) List(context.Context, string, domain.ReminderFilter, domain.Page) ([]*domain.Reminder, int64, error) {
	return nil, 0, nil
}
func (fakeReminderRepo) Update(context.Context, *domain.Reminder) error { return nil }
func (fakeReminderRepo) SetActive(context.Context, string, string, bool) (*domain.Reminder, error) {
	return nil, domain.ErrNotFound
}
func (fakeReminderRepo) Delete(context.Context, string, string) error { return nil }
func (fakeReminderRepo) DueAt(context.Context, string, string, int) ([]*domain.Reminder, error) {
	return nil, nil
}
func (fakeReminderRepo) CountActive(context.Context) (int64, error) { return 7, nil }

type fakeDoctorRepo struct {
	doctors map[string]*domain.Doctor
	lookups int
	failGet error
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *domain.Doctor) error {
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id string) (*domain.Doctor, error) {
	r.lookups++
	if r.failGet != nil {
		return nil, r.failGet
	}
	d, ok := r.doctors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (r *fakeDoctorRepo) List(context.Context, domain.DoctorFilter, domain.Page) ([]*domain.Doctor, int64, error) {
	return nil, 0, nil
}

func (r *fakeDoctorRepo) ListAvailable(context.Context) ([]*domain.Doctor, error) {
	return nil, nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, d *domain.Doctor) error {
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) Delete(_ context.Context, id string) error {
	delete(r.doctors, id)
	return nil
}

type fakeAppointmentRepo struct {
	ids   idSeq
	appts map[string]*domain.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: make(map[string]*domain.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *domain.Appointment) error {
	a.ID = r.ids.next("appt-")
	cp := *a
	r.appts[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, userID, id string) (*domain.Appointment, error) {
	a, ok := r.appts[id]
	if !ok || (userID != "" && a.UserID != userID) {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, filter domain.AppointmentFilter, _ domain.Page) ([]*domain.Appointment, int64, error) {
	var out []*domain.Appointment
	for _, a := range r.appts {
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id, status, note string) (*domain.Appointment, error) {
	a, ok := r.appts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a.Status, a.AdminNote = status, note
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) CancelPending(_ context.Context, userID, id string) (*domain.Appointment, error) {
	a, ok := r.appts[id]
	if !ok || a.UserID != userID || a.Status != domain.AppointmentPending {
		return nil, domain.ErrNotFound
	}
	a.Status = domain.AppointmentCancelled
	cp := *a
	return &cp, nil
}

type fakeFiles struct {
	keys []string
	data map[string][]byte
}

func (f *fakeFiles) Upload(_ context.Context, data []byte, key, _ string) (string, error) {
	if f.data == nil {
		f.data = make(map[string][]byte)
	}
	f.keys = append(f.keys, key)
	f.data[key] = data
	return "https://files.example.com/" + key, nil
}
