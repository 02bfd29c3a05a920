/*
Package sqlite provides a SQLite-backed ferias.Repository.

PURPOSE:
  Persists employees, accrual periods with their fractions, the holiday
  calendar, collective rules, org units, the configuration document and
  produced notifications. The engine never sees SQL; it gets copies.

KEY TABLES:
  employees, leaves:          identity, placement, absence records
  accrual_periods, fractions: the schedule (fractions cascade on delete)
  holidays, collective_rules: calendar inputs (rules keep declaration order)
  org_units:                  parent links for ancestry checks
  app_config:                 single-row JSON document (see factory)
  notifications:              produced by approval actions

DATES:
  Stored as YYYY-MM-DD text. Instants (created_at, signature events) as
  RFC 3339 UTC.

WRITES:
  SavePeriod runs in one transaction: upsert the period, replace its
  fractions, insert notifications. Writes are serialized with a mutex;
  last writer wins.

MIGRATION:
  The schema lives in migrations/*.sql and is applied with goose on New().

USAGE:
  store, err := sqlite.New("./data/ferias.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := ferias.NewService(store, generic.SystemClock{}, logger)

SEE ALSO:
  - ferias/store.go: Repository interface
  - ferias/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/warp/ferias-engine/factory"
	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store implements ferias.Repository using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	configs *factory.ConfigFactory
}

var _ ferias.Repository = (*Store)(nil)

// New opens the database at dbPath and applies pending migrations.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: ":memory:" databases are per-connection and SQLite
	// allows a single writer anyway.
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, configs: factory.NewConfigFactory()}, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

const employeeColumns = `id, name, email, admission_date, unit_id, area_id, department_id,
	hierarchy_level, manager_id, role, status`

// SaveEmployee upserts an employee and replaces its leaves.
func (s *Store) SaveEmployee(ctx context.Context, emp ferias.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			admission_date = excluded.admission_date,
			unit_id = excluded.unit_id,
			area_id = excluded.area_id,
			department_id = excluded.department_id,
			hierarchy_level = excluded.hierarchy_level,
			manager_id = excluded.manager_id,
			role = excluded.role,
			status = excluded.status
	`,
		emp.ID, emp.Name, emp.Email, nullDate(emp.AdmissionDate),
		emp.UnitID, emp.AreaID, emp.DepartmentID, emp.HierarchyLevel,
		nullPtr(emp.ManagerID), string(emp.Role), string(emp.Status),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM leaves WHERE employee_id = ?", emp.ID); err != nil {
		return err
	}
	for _, l := range emp.Leaves {
		id := l.ID
		if id == "" {
			id = generic.NewID("leave")
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO leaves (id, employee_id, start_date, end_date, description) VALUES (?, ?, ?, ?, ?)",
			id, emp.ID, l.Range.Start.String(), l.Range.End.String(), l.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to save leave: %w", err)
		}
	}

	return tx.Commit()
}

// GetEmployee returns an employee with leaves and periods loaded.
func (s *Store) GetEmployee(ctx context.Context, id string) (*ferias.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, err := scanEmployee(s.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by name, fully loaded.
func (s *Store) ListEmployees(ctx context.Context) ([]ferias.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	var employees []ferias.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		employees = append(employees, emp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range employees {
		if err := s.hydrate(ctx, &employees[i]); err != nil {
			return nil, err
		}
	}
	return employees, nil
}

func (s *Store) hydrate(ctx context.Context, emp *ferias.Employee) error {
	leaves, err := s.loadLeaves(ctx, emp.ID)
	if err != nil {
		return err
	}
	emp.Leaves = leaves
	periods, err := s.loadPeriods(ctx, "WHERE employee_id = ? ORDER BY start_date", emp.ID)
	if err != nil {
		return err
	}
	emp.Periods = periods
	return nil
}

func (s *Store) loadLeaves(ctx context.Context, employeeID string) ([]ferias.Leave, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, start_date, end_date, description FROM leaves WHERE employee_id = ? ORDER BY start_date",
		employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ferias.Leave
	for rows.Next() {
		var l ferias.Leave
		var start, end string
		if err := rows.Scan(&l.ID, &start, &end, &l.Description); err != nil {
			return nil, err
		}
		var dr dateReader
		l.Range = generic.DateRange{Start: dr.parse("start_date", start), End: dr.parse("end_date", end)}
		if dr.err != nil {
			return nil, fmt.Errorf("leave %s: %w", l.ID, dr.err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (ferias.Employee, error) {
	var emp ferias.Employee
	var admission, manager sql.NullString
	var role, status string
	err := row.Scan(&emp.ID, &emp.Name, &emp.Email, &admission,
		&emp.UnitID, &emp.AreaID, &emp.DepartmentID, &emp.HierarchyLevel,
		&manager, &role, &status)
	if err != nil {
		return emp, err
	}
	var dr dateReader
	emp.AdmissionDate = dr.parse("admission_date", admission.String)
	if dr.err != nil {
		return emp, fmt.Errorf("employee %s: %w", emp.ID, dr.err)
	}
	emp.ManagerID = ptrOf(manager)
	emp.Role = ferias.Role(role)
	emp.Status = ferias.EmployeeStatus(status)
	return emp, nil
}

// =============================================================================
// ACCRUAL PERIODS
// =============================================================================

const periodColumns = `id, employee_id, start_date, end_date, concession_deadline, saldo_total,
	status, day_input_mode, abono_basis, manager_approver_id, rh_approver_id, signature_json`

// GetPeriod returns a period with its fractions.
func (s *Store) GetPeriod(ctx context.Context, id string) (*ferias.AccrualPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	periods, err := s.loadPeriods(ctx, "WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, generic.ErrPeriodNotFound
	}
	return &periods[0], nil
}

// ListPeriods returns the employee's periods, oldest first.
func (s *Store) ListPeriods(ctx context.Context, employeeID string) ([]ferias.AccrualPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadPeriods(ctx, "WHERE employee_id = ? ORDER BY start_date", employeeID)
}

func (s *Store) loadPeriods(ctx context.Context, where string, args ...any) ([]ferias.AccrualPeriod, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+periodColumns+" FROM accrual_periods "+where, args...)
	if err != nil {
		return nil, err
	}
	var periods []ferias.AccrualPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		periods = append(periods, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range periods {
		fractions, err := s.loadFractions(ctx, periods[i].ID)
		if err != nil {
			return nil, err
		}
		periods[i].Fractions = fractions
	}
	return periods, nil
}

func scanPeriod(row scanner) (ferias.AccrualPeriod, error) {
	var p ferias.AccrualPeriod
	var start, end, deadline, status, mode, basis string
	var managerApprover, rhApprover, signature sql.NullString
	err := row.Scan(&p.ID, &p.EmployeeID, &start, &end, &deadline, &p.SaldoTotal,
		&status, &mode, &basis, &managerApprover, &rhApprover, &signature)
	if err != nil {
		return p, err
	}
	var dr dateReader
	p.StartDate = dr.parse("start_date", start)
	p.EndDate = dr.parse("end_date", end)
	p.ConcessionDeadline = dr.parse("concession_deadline", deadline)
	if dr.err != nil {
		return p, fmt.Errorf("period %s: %w", p.ID, dr.err)
	}
	p.Status = ferias.WorkflowStatus(status)
	p.DayInputMode = ferias.DayInputMode(mode)
	p.AbonoBasis = ferias.AbonoBasis(basis)
	p.ManagerApproverID = ptrOf(managerApprover)
	p.RHApproverID = ptrOf(rhApprover)
	if signature.Valid && signature.String != "" {
		var env ferias.SignatureEnvelope
		if err := json.Unmarshal([]byte(signature.String), &env); err != nil {
			return p, fmt.Errorf("period %s: corrupt signature: %w", p.ID, err)
		}
		p.Signature = &env
	}
	return p, nil
}

func (s *Store) loadFractions(ctx context.Context, periodID string) ([]ferias.Fraction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sequence, start_date, end_date, days, abono_days, advance_13th, status
		FROM fractions WHERE period_id = ? ORDER BY sequence`, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ferias.Fraction
	for rows.Next() {
		var f ferias.Fraction
		var start, end, status string
		var advance int
		if err := rows.Scan(&f.ID, &f.Sequence, &start, &end, &f.Days, &f.AbonoDays, &advance, &status); err != nil {
			return nil, err
		}
		var dr dateReader
		f.StartDate = dr.parse("start_date", start)
		f.EndDate = dr.parse("end_date", end)
		if dr.err != nil {
			return nil, fmt.Errorf("fraction %s: %w", f.ID, dr.err)
		}
		f.Advance13th = advance != 0
		f.Status = ferias.FractionStatus(status)
		out = append(out, f)
	}
	return out, rows.Err()
}

// SavePeriod upserts the period, replaces its fractions and appends the
// notifications in a single transaction.
func (s *Store) SavePeriod(ctx context.Context, p ferias.AccrualPeriod, notes ...ferias.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var signature sql.NullString
	if p.Signature != nil {
		b, err := json.Marshal(p.Signature)
		if err != nil {
			return fmt.Errorf("failed to encode signature: %w", err)
		}
		signature = sql.NullString{String: string(b), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO accrual_periods (`+periodColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			concession_deadline = excluded.concession_deadline,
			saldo_total = excluded.saldo_total,
			status = excluded.status,
			day_input_mode = excluded.day_input_mode,
			abono_basis = excluded.abono_basis,
			manager_approver_id = excluded.manager_approver_id,
			rh_approver_id = excluded.rh_approver_id,
			signature_json = excluded.signature_json,
			updated_at = excluded.updated_at
	`,
		p.ID, p.EmployeeID, p.StartDate.String(), p.EndDate.String(), p.ConcessionDeadline.String(),
		p.SaldoTotal, string(p.Status), string(p.DayInputMode), string(p.AbonoBasis),
		nullPtr(p.ManagerApproverID), nullPtr(p.RHApproverID), signature,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return generic.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to save period: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM fractions WHERE period_id = ?", p.ID); err != nil {
		return err
	}
	for _, f := range p.Fractions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO fractions (id, period_id, sequence, start_date, end_date, days, abono_days, advance_13th, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, p.ID, f.Sequence, f.StartDate.String(), f.EndDate.String(),
			f.Days, f.AbonoDays, boolInt(f.Advance13th), string(f.Status),
		)
		if err != nil {
			return fmt.Errorf("failed to save fraction %s: %w", f.ID, err)
		}
	}

	for _, n := range notes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (id, recipient_id, period_id, kind, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			n.ID, n.RecipientID, n.PeriodID, string(n.Kind), n.Message,
			n.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to save notification: %w", err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// CALENDAR
// =============================================================================

// ListHolidays returns all holidays by date.
func (s *Store) ListHolidays(ctx context.Context) ([]ferias.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, date, name, type, unit_id FROM holidays ORDER BY date, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ferias.Holiday
	for rows.Next() {
		var h ferias.Holiday
		var date, typ string
		if err := rows.Scan(&h.ID, &date, &h.Name, &typ, &h.UnitID); err != nil {
			return nil, err
		}
		var dr dateReader
		h.Date = dr.parse("date", date)
		if dr.err != nil {
			return nil, fmt.Errorf("holiday %s: %w", h.ID, dr.err)
		}
		h.Type = ferias.HolidayType(typ)
		out = append(out, h)
	}
	return out, rows.Err()
}

// SaveHoliday upserts a holiday.
func (s *Store) SaveHoliday(ctx context.Context, h ferias.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, type, unit_id) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date, name = excluded.name, type = excluded.type, unit_id = excluded.unit_id
	`, h.ID, h.Date.String(), h.Name, string(h.Type), h.UnitID)
	return err
}

// DeleteHoliday removes a holiday.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "holidays", id, generic.ErrHolidayNotFound)
}

// ListCollectiveRules returns rules in declaration order.
func (s *Store) ListCollectiveRules(ctx context.Context) ([]ferias.CollectiveRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, start_date, end_date, unit_id, area_id, department_id, employee_ids_json
		FROM collective_rules ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ferias.CollectiveRule
	for rows.Next() {
		var r ferias.CollectiveRule
		var start, end, ids string
		if err := rows.Scan(&r.ID, &r.Description, &start, &end, &r.UnitID, &r.AreaID, &r.DepartmentID, &ids); err != nil {
			return nil, err
		}
		var dr dateReader
		r.Start = dr.parse("start_date", start)
		r.End = dr.parse("end_date", end)
		if dr.err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.ID, dr.err)
		}
		if err := json.Unmarshal([]byte(ids), &r.EmployeeIDs); err != nil {
			return nil, fmt.Errorf("rule %s: corrupt employee ids: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveCollectiveRule upserts a rule. New rules go to the end of the list;
// updates keep their position.
func (s *Store) SaveCollectiveRule(ctx context.Context, r ferias.CollectiveRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := r.EmployeeIDs
	if ids == nil {
		ids = []string{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collective_rules
			(id, position, description, start_date, end_date, unit_id, area_id, department_id, employee_ids_json)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM collective_rules), ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			unit_id = excluded.unit_id,
			area_id = excluded.area_id,
			department_id = excluded.department_id,
			employee_ids_json = excluded.employee_ids_json
	`, r.ID, r.Description, r.Start.String(), r.End.String(), r.UnitID, r.AreaID, r.DepartmentID, string(idsJSON))
	return err
}

// DeleteCollectiveRule removes a rule.
func (s *Store) DeleteCollectiveRule(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "collective_rules", id, generic.ErrRuleNotFound)
}

// =============================================================================
// ORG UNITS
// =============================================================================

// ListOrgUnits returns all org units.
func (s *Store) ListOrgUnits(ctx context.Context) ([]ferias.OrgUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, type, parent_id FROM org_units ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ferias.OrgUnit
	for rows.Next() {
		var u ferias.OrgUnit
		var parent sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.Type, &parent); err != nil {
			return nil, err
		}
		u.ParentID = ptrOf(parent)
		out = append(out, u)
	}
	return out, rows.Err()
}

// SaveOrgUnit upserts an org unit.
func (s *Store) SaveOrgUnit(ctx context.Context, u ferias.OrgUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO org_units (id, name, type, parent_id) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, type = excluded.type, parent_id = excluded.parent_id
	`, u.ID, u.Name, u.Type, nullPtr(u.ParentID))
	return err
}

// =============================================================================
// CONFIG
// =============================================================================

// GetConfig loads and parses the stored configuration document.
func (s *Store) GetConfig(ctx context.Context) (*ferias.AppConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT config_json FROM app_config WHERE id = 1").Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrConfigMissing
	}
	if err != nil {
		return nil, err
	}
	return s.configs.ParseConfig(doc)
}

// SaveConfig stores the configuration document.
func (s *Store) SaveConfig(ctx context.Context, cfg *ferias.AppConfig) error {
	doc, err := s.configs.MarshalConfig(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_config (id, config_json, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET config_json = excluded.config_json, updated_at = excluded.updated_at
	`, doc, time.Now().UTC().Format(time.RFC3339))
	return err
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// ListNotifications returns the recipient's notifications, oldest first.
func (s *Store) ListNotifications(ctx context.Context, recipientID string) ([]ferias.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recipient_id, period_id, kind, message, created_at
		FROM notifications WHERE recipient_id = ? ORDER BY created_at, id`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ferias.Notification
	for rows.Next() {
		var n ferias.Notification
		var kind, created string
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.PeriodID, &kind, &n.Message, &created); err != nil {
			return nil, err
		}
		n.Kind = ferias.NotificationKind(kind)
		n.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, n)
	}
	return out, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"notifications", "fractions", "accrual_periods", "leaves", "employees",
		"holidays", "collective_rules", "org_units", "app_config",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) deleteByID(ctx context.Context, table, id string, notFound error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// Helper functions

func nullDate(d generic.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullPtr(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func ptrOf(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	v := ns.String
	return &v
}

// dateReader parses the stored dates of one row and keeps the first failure.
// Empty values are the zero Date. A corrupt value is a storage fault, not
// bad client input, so the error does not wrap ErrInvalidInput.
type dateReader struct {
	err error
}

func (dr *dateReader) parse(column, s string) generic.Date {
	if s == "" || dr.err != nil {
		return generic.Date{}
	}
	d, err := time.Parse(generic.ISOLayout, s)
	if err != nil {
		dr.err = fmt.Errorf("corrupt %s %q", column, s)
		return generic.Date{}
	}
	return generic.DateOf(d)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
