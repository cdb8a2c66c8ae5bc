package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/asset-desk/internal/core/domain"
)

const mysqlErrDuplicateEntry = 1062

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// ---- users ----

const userColumns = `id, name, email, date_of_birth, role, company_name, company_logo,
		package_limit, current_employees, subscription, created_at`

func (m *MySQLAdapter) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (m *MySQLAdapter) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u                domain.User
		dateOfBirth      sql.NullString
		companyName      sql.NullString
		companyLogo      sql.NullString
		packageLimit     sql.NullInt64
		currentEmployees sql.NullInt64
		subscription     sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &dateOfBirth, &u.Role, &companyName,
		&companyLogo, &packageLimit, &currentEmployees, &subscription, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	u.DateOfBirth = dateOfBirth.String
	if u.Role == domain.RoleHR {
		u.HR = &domain.HRProfile{
			CompanyName:      companyName.String,
			CompanyLogo:      companyLogo.String,
			PackageLimit:     int(packageLimit.Int64),
			CurrentEmployees: int(currentEmployees.Int64),
			Subscription:     subscription.String,
		}
	}
	return &u, nil
}

func (m *MySQLAdapter) UpsertUser(ctx context.Context, u domain.User) error {
	var (
		companyName      sql.NullString
		companyLogo      sql.NullString
		packageLimit     sql.NullInt64
		currentEmployees sql.NullInt64
		subscription     sql.NullString
	)
	if u.HR != nil {
		companyName = sql.NullString{String: u.HR.CompanyName, Valid: true}
		companyLogo = sql.NullString{String: u.HR.CompanyLogo, Valid: true}
		packageLimit = sql.NullInt64{Int64: int64(u.HR.PackageLimit), Valid: true}
		currentEmployees = sql.NullInt64{Int64: int64(u.HR.CurrentEmployees), Valid: true}
		subscription = sql.NullString{String: u.HR.Subscription, Valid: true}
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, date_of_birth, role, company_name, company_logo,
			package_limit, current_employees, subscription, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name), email = VALUES(email), date_of_birth = VALUES(date_of_birth),
			role = VALUES(role), company_name = VALUES(company_name), company_logo = VALUES(company_logo),
			package_limit = VALUES(package_limit), current_employees = VALUES(current_employees),
			subscription = VALUES(subscription)`,
		u.ID, u.Name, u.Email, u.DateOfBirth, u.Role, companyName, companyLogo,
		packageLimit, currentEmployees, subscription, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// ApplyTier updates the subscription columns of a company record. No
// RowsAffected check: MySQL reports zero affected rows when the same tier is
// re-applied, which is a successful no-op here. Existence is validated by
// the caller.
func (m *MySQLAdapter) ApplyTier(ctx context.Context, companyID string, tier domain.Tier) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE users
		SET subscription = ?, package_limit = ?
		WHERE id = ? AND role = 'hr'`,
		tier.Name, tier.EmployeeLimit, companyID,
	)
	if err != nil {
		return fmt.Errorf("apply tier: %w", err)
	}
	return nil
}

// ---- assets ----

func (m *MySQLAdapter) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	var a domain.Asset
	err := m.db.QueryRowContext(ctx, `
		SELECT id, company_id, name, type, quantity, image, created_at, updated_at
		FROM assets WHERE id = ?`, id,
	).Scan(&a.ID, &a.CompanyID, &a.Name, &a.Type, &a.Quantity, &a.Image, &a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query asset: %w", err)
	}
	return &a, nil
}

func (m *MySQLAdapter) CreateAsset(ctx context.Context, a domain.Asset) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO assets (id, company_id, name, type, quantity, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CompanyID, a.Name, a.Type, a.Quantity, a.Image, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) UpdateAsset(ctx context.Context, a domain.Asset) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE assets
		SET name = ?, type = ?, quantity = ?, image = ?, updated_at = ?
		WHERE id = ? AND company_id = ?`,
		a.Name, a.Type, a.Quantity, a.Image, a.UpdatedAt, a.ID, a.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Distinguish a missing row from an unchanged one.
		existing, err := m.GetAsset(ctx, a.ID)
		if err != nil {
			return err
		}
		if existing == nil || existing.CompanyID != a.CompanyID {
			return domain.ErrAssetNotFound
		}
	}
	return nil
}

func (m *MySQLAdapter) ListAssetsByCompany(ctx context.Context, companyID string) ([]domain.Asset, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, company_id, name, type, quantity, image, created_at, updated_at
		FROM assets WHERE company_id = ? ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Name, &a.Type, &a.Quantity, &a.Image, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// ---- requests ----

func (m *MySQLAdapter) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	var (
		r         domain.Request
		decidedAt sql.NullTime
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT id, employee_id, employee_email, company_id, asset_id, status, created_at, decided_at
		FROM requests WHERE id = ?`, id,
	).Scan(&r.ID, &r.EmployeeID, &r.EmployeeEmail, &r.CompanyID, &r.AssetID, &r.Status, &r.CreatedAt, &decidedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query request: %w", err)
	}
	if decidedAt.Valid {
		r.DecidedAt = &decidedAt.Time
	}
	return &r, nil
}

func (m *MySQLAdapter) CreateRequest(ctx context.Context, r domain.Request) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO requests (id, employee_id, employee_email, company_id, asset_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.EmployeeID, r.EmployeeEmail, r.CompanyID, r.AssetID, r.Status, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ListRequestsByCompany(ctx context.Context, companyID string) ([]domain.Request, error) {
	return m.listRequests(ctx, `company_id = ?`, companyID)
}

func (m *MySQLAdapter) ListRequestsByEmployee(ctx context.Context, employeeID string) ([]domain.Request, error) {
	return m.listRequests(ctx, `employee_id = ?`, employeeID)
}

func (m *MySQLAdapter) listRequests(ctx context.Context, where string, arg any) ([]domain.Request, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, employee_id, employee_email, company_id, asset_id, status, created_at, decided_at
		FROM requests WHERE `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.Request
	for rows.Next() {
		var (
			r         domain.Request
			decidedAt sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.EmployeeEmail, &r.CompanyID, &r.AssetID, &r.Status, &r.CreatedAt, &decidedAt); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		if decidedAt.Valid {
			r.DecidedAt = &decidedAt.Time
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// ---- affiliations / workflow commit ----

func (m *MySQLAdapter) GetAffiliation(ctx context.Context, employeeID string) (*domain.Affiliation, error) {
	var a domain.Affiliation
	err := m.db.QueryRowContext(ctx, `
		SELECT employee_id, company_id, joined_at
		FROM affiliations WHERE employee_id = ?`, employeeID,
	).Scan(&a.EmployeeID, &a.CompanyID, &a.JoinedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query affiliation: %w", err)
	}
	return &a, nil
}

// ApproveRequest commits the full approval mutation set in one transaction.
// Every UPDATE carries its own predicate and the zero-rows case maps to the
// matching conflict, so two approvals racing for the last unit or the last
// capacity slot cannot both commit.
func (m *MySQLAdapter) ApproveRequest(ctx context.Context, upd domain.ApprovalUpdate) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE requests
		SET status = 'approved', decided_at = ?
		WHERE id = ? AND status = 'pending'`,
		upd.DecidedAt, upd.RequestID,
	)
	if err != nil {
		return fmt.Errorf("transition request: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRequestDecided
	}

	result, err = tx.ExecContext(ctx, `
		UPDATE assets
		SET quantity = quantity - 1, updated_at = ?
		WHERE id = ? AND company_id = ? AND quantity > 0`,
		upd.DecidedAt, upd.AssetID, upd.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	rows, _ = result.RowsAffected()
	if rows == 0 {
		return domain.ErrOutOfStock
	}

	if upd.NewAffiliation {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO affiliations (employee_id, company_id, joined_at)
			VALUES (?, ?, ?)`,
			upd.EmployeeID, upd.CompanyID, upd.DecidedAt,
		)
		if err != nil {
			var mysqlErr *mysql.MySQLError
			if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
				return domain.ErrAffiliationExists
			}
			return fmt.Errorf("insert affiliation: %w", err)
		}

		result, err = tx.ExecContext(ctx, `
			UPDATE users
			SET current_employees = current_employees + 1
			WHERE id = ? AND role = 'hr' AND current_employees < package_limit`,
			upd.CompanyID,
		)
		if err != nil {
			return fmt.Errorf("increment employees: %w", err)
		}
		rows, _ = result.RowsAffected()
		if rows == 0 {
			return domain.ErrEmployeeLimitReached
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) RejectRequest(ctx context.Context, id string, decidedAt time.Time) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE requests
		SET status = 'rejected', decided_at = ?
		WHERE id = ? AND status = 'pending'`,
		decidedAt, id,
	)
	if err != nil {
		return fmt.Errorf("reject request: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRequestDecided
	}
	return nil
}

func (m *MySQLAdapter) AppendDecision(ctx context.Context, rec domain.DecisionRecord) error {
	var actorID sql.NullString
	if rec.ActorID != "" {
		actorID = sql.NullString{String: rec.ActorID, Valid: true}
	}
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO decision_log (id, request_id, actor_id, outcome, decided_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.RequestID, actorID, rec.Outcome, rec.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}
