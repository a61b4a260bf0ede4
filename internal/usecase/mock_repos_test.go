package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

var errQueueDown = errors.New("queue down")

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// fakeTransactor serialises transactions the way the doctor row lock does.
type fakeTransactor struct {
	mu sync.Mutex
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(nil)
}

// store is the in-memory database shared by the fake repositories.
type store struct {
	mu             sync.Mutex
	users          map[uuid.UUID]entity.User
	doctors        map[uuid.UUID]entity.DoctorProfile
	patients       map[uuid.UUID]entity.PatientProfile
	appointments   map[uuid.UUID]entity.Appointment
	templates      map[int]entity.WeeklyTemplate
	nextTemplateID int
	auditLogs      []entity.AuditLog

	// hideLive makes FindLiveByDoctorAndDate miss existing rows, as a stale read would
	hideLive bool
}

func newStore() *store {
	return &store{
		users:          make(map[uuid.UUID]entity.User),
		doctors:        make(map[uuid.UUID]entity.DoctorProfile),
		patients:       make(map[uuid.UUID]entity.PatientProfile),
		appointments:   make(map[uuid.UUID]entity.Appointment),
		templates:      make(map[int]entity.WeeklyTemplate),
		nextTemplateID: 1,
	}
}

func (s *store) addUser(roleID int, email, name string) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := entity.User{ID: uuid.New(), RoleID: roleID, Email: email, FullName: name, IsActive: true}
	s.users[user.ID] = user
	return user
}

func (s *store) addDoctor(name string) entity.DoctorProfile {
	user := s.addUser(entity.RoleIDDoctor, name+"@clinic.local", name)
	s.mu.Lock()
	defer s.mu.Unlock()
	doctor := entity.DoctorProfile{UserID: user.ID, LicenseNumber: "LIC-" + name, Specialization: "General", IsAvailable: true, User: user}
	s.doctors[user.ID] = doctor
	return doctor
}

func (s *store) addPatient(name string) entity.PatientProfile {
	user := s.addUser(entity.RoleIDPatient, name+"@example.com", name)
	s.mu.Lock()
	defer s.mu.Unlock()
	patient := entity.PatientProfile{UserID: user.ID, DateOfBirth: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), User: user}
	s.patients[user.ID] = patient
	return patient
}

func (s *store) addAppointment(a entity.Appointment) entity.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.appointments[a.ID] = a
	return a
}

func (s *store) appointment(id uuid.UUID) entity.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appointments[id]
}

func (s *store) auditCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.auditLogs)
}

// withRelations fills Doctor and Patient like the gorm preloads do. Caller holds mu.
func (s *store) withRelations(a entity.Appointment) entity.Appointment {
	a.Doctor = s.doctors[a.DoctorID]
	a.Patient = s.patients[a.PatientID]
	return a
}

// User repository

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return uniqueViolation(emailConstraint)
		}
	}
	user.ID = uuid.New()
	r.s.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	if doctor, ok := r.s.doctors[id]; ok {
		user.DoctorProfile = &doctor
	}
	if patient, ok := r.s.patients[id]; ok {
		user.PatientProfile = &patient
	}
	return &user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = *user
	return nil
}

// Doctor profile repository

type fakeDoctorRepo struct{ s *store }

func (r *fakeDoctorRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.doctors {
		if existing.LicenseNumber == profile.LicenseNumber {
			return uniqueViolation(licenseConstraint)
		}
	}
	r.s.doctors[profile.UserID] = *profile
	return nil
}

func (r *fakeDoctorRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doctor, ok := r.s.doctors[userID]
	if !ok {
		return nil, nil
	}
	return &doctor, nil
}

func (r *fakeDoctorRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.DoctorProfile
	for _, doctor := range r.s.doctors {
		if filter != nil && filter.OnlyAvailable && !doctor.IsAvailable {
			continue
		}
		out = append(out, doctor)
	}
	return out, nil
}

func (r *fakeDoctorRepo) Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.doctors[profile.UserID] = *profile
	return nil
}

func (r *fakeDoctorRepo) LockForBooking(ctx context.Context, db *gorm.DB, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.doctors[userID]
	return ok, nil
}

// Patient profile repository

type fakePatientRepo struct{ s *store }

func (r *fakePatientRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.patients[profile.UserID] = *profile
	return nil
}

func (r *fakePatientRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	patient, ok := r.s.patients[userID]
	if !ok {
		return nil, nil
	}
	return &patient, nil
}

func (r *fakePatientRepo) FindAll(ctx context.Context, db *gorm.DB, actor entity.Actor) ([]entity.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.PatientProfile
	for _, patient := range r.s.patients {
		switch {
		case actor.IsAdmin():
		case actor.IsPatient() && patient.UserID == actor.UserID:
		case actor.IsDoctor() && r.treatedBy(patient.UserID, actor.UserID):
		default:
			continue
		}
		out = append(out, patient)
	}
	return out, nil
}

// treatedBy reports whether the doctor has any appointment with the patient. Caller holds mu.
func (r *fakePatientRepo) treatedBy(patientID, doctorID uuid.UUID) bool {
	for _, a := range r.s.appointments {
		if a.PatientID == patientID && a.DoctorID == doctorID {
			return true
		}
	}
	return false
}

func (r *fakePatientRepo) Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.patients[profile.UserID] = *profile
	return nil
}

// Appointment repository

type fakeAppointmentRepo struct{ s *store }

func (r *fakeAppointmentRepo) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.appointments {
		if existing.IsLive() && existing.DoctorID == appointment.DoctorID &&
			existing.AppointmentDate.Equal(appointment.AppointmentDate) && existing.StartTime == appointment.StartTime {
			return uniqueViolation(appointmentSlotConstraint)
		}
	}
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	r.s.appointments[appointment.ID] = *appointment
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	a = r.s.withRelations(a)
	return &a, nil
}

func (r *fakeAppointmentRepo) FindAll(ctx context.Context, db *gorm.DB, actor entity.Actor, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.s.appointments {
		if !actor.CanAccess(&a) {
			continue
		}
		if filter != nil && filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter != nil && filter.Date != nil && !a.AppointmentDate.Equal(*filter.Date) {
			continue
		}
		out = append(out, r.s.withRelations(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			return out[i].AppointmentDate.After(out[j].AppointmentDate)
		}
		return out[i].StartTime > out[j].StartTime
	})
	return out, nil
}

func (r *fakeAppointmentRepo) FindLiveByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.hideLive {
		return nil, nil
	}
	var out []entity.Appointment
	for _, a := range r.s.appointments {
		if a.IsLive() && a.DoctorID == doctorID && a.AppointmentDate.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindByDateAndStatus(ctx context.Context, db *gorm.DB, date time.Time, status entity.AppointmentStatus) ([]entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.s.appointments {
		if a.Status == status && a.AppointmentDate.Equal(date) {
			out = append(out, r.s.withRelations(a))
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateSchedule(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.appointments[appointment.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.AppointmentDate = appointment.AppointmentDate
	stored.StartTime = appointment.StartTime
	stored.EndTime = appointment.EndTime
	stored.Notes = appointment.Notes
	r.s.appointments[appointment.ID] = stored
	return nil
}

func (r *fakeAppointmentRepo) TransitionStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.appointments[id]
	if !ok {
		return 0, nil
	}
	for _, status := range from {
		if stored.Status == status {
			stored.Status = to
			r.s.appointments[id] = stored
			return 1, nil
		}
	}
	return 0, nil
}

// Weekly template repository

type fakeTemplateRepo struct{ s *store }

func (r *fakeTemplateRepo) Create(ctx context.Context, db *gorm.DB, template *entity.WeeklyTemplate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.duplicate(template) {
		return uniqueViolation(templateSlotConstraint)
	}
	template.ID = r.s.nextTemplateID
	r.s.nextTemplateID++
	r.s.templates[template.ID] = *template
	return nil
}

// duplicate reports a clash on (doctor, day, start) with another template. Caller holds mu.
func (r *fakeTemplateRepo) duplicate(template *entity.WeeklyTemplate) bool {
	for _, existing := range r.s.templates {
		if existing.ID != template.ID && existing.DoctorID == template.DoctorID &&
			existing.DayOfWeek == template.DayOfWeek && existing.StartTime == template.StartTime {
			return true
		}
	}
	return false
}

func (r *fakeTemplateRepo) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.WeeklyTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	template, ok := r.s.templates[id]
	if !ok {
		return nil, nil
	}
	return &template, nil
}

func (r *fakeTemplateRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.WeeklyTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.WeeklyTemplate
	for _, template := range r.s.templates {
		if template.DoctorID == doctorID {
			out = append(out, template)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTemplateRepo) FindAvailableByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) ([]entity.WeeklyTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.WeeklyTemplate
	for _, template := range r.s.templates {
		if template.DoctorID == doctorID && template.DayOfWeek == dayOfWeek && template.IsAvailable {
			out = append(out, template)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, db *gorm.DB, template *entity.WeeklyTemplate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.duplicate(template) {
		return uniqueViolation(templateSlotConstraint)
	}
	r.s.templates[template.ID] = *template
	return nil
}

func (r *fakeTemplateRepo) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.templates[id]; !ok {
		return 0, nil
	}
	delete(r.s.templates, id)
	return 1, nil
}

// Audit log repository

type fakeAuditLogRepo struct{ s *store }

func (r *fakeAuditLogRepo) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log.ID = int64(len(r.s.auditLogs) + 1)
	r.s.auditLogs = append(r.s.auditLogs, *log)
	return nil
}

func (r *fakeAuditLogRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.AuditLog(nil), r.s.auditLogs...), nil
}

func (r *fakeAuditLogRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, log := range r.s.auditLogs {
		if log.ID == id {
			l := log
			return &l, nil
		}
	}
	return nil, nil
}

// Notification dispatcher

type fakeDispatcher struct {
	mu    sync.Mutex
	tasks []entity.NotificationTask
	err   error
}

func (d *fakeDispatcher) Enqueue(ctx context.Context, task entity.NotificationTask) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.tasks = append(d.tasks, task)
	return nil
}

func (d *fakeDispatcher) queued() []entity.NotificationTask {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]entity.NotificationTask(nil), d.tasks...)
}

// Mailer

type fakeMailer struct {
	mu   sync.Mutex
	sent []service.Message
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg service.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// fixture bundles the fakes for one test.
type fixture struct {
	store        *store
	log          *logrus.Logger
	transactor   *fakeTransactor
	users        *fakeUserRepo
	doctors      *fakeDoctorRepo
	patients     *fakePatientRepo
	appointments *fakeAppointmentRepo
	templates    *fakeTemplateRepo
	auditLogs    *fakeAuditLogRepo
	auditService service.AuditService
	dispatcher   *fakeDispatcher
}

func newFixture() *fixture {
	s := newStore()
	log, _ := test.NewNullLogger()
	auditLogs := &fakeAuditLogRepo{s: s}
	return &fixture{
		store:        s,
		log:          log,
		transactor:   &fakeTransactor{},
		users:        &fakeUserRepo{s: s},
		doctors:      &fakeDoctorRepo{s: s},
		patients:     &fakePatientRepo{s: s},
		appointments: &fakeAppointmentRepo{s: s},
		templates:    &fakeTemplateRepo{s: s},
		auditLogs:    auditLogs,
		auditService: service.NewAuditService(log, auditLogs),
		dispatcher:   &fakeDispatcher{},
	}
}

func actorOf(userID uuid.UUID, roleID int) entity.Actor {
	return entity.Actor{UserID: userID, RoleID: roleID}
}

func mustClock(s string) entity.ClockTime {
	c, err := entity.ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}
