package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/crypto/bcrypt"

	"github.com/JonMunkholm/hrpanel/internal/core"
)

// dummyHash is compared against when the email is unknown so a miss costs
// as much as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

func checkPassword(hash []byte, password string) bool {
	if hash == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// Directory is the PostgreSQL employee directory.
type Directory struct {
	db   core.DBTX
	cost int
}

// NewDirectory returns a directory hashing new passwords with cost.
func NewDirectory(db core.DBTX, cost int) *Directory {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Directory{db: db, cost: cost}
}

type employeeRow struct {
	ID         pgtype.UUID        `db:"id"`
	Name       string             `db:"name"`
	Email      string             `db:"email"`
	Password   string             `db:"password"`
	Role       string             `db:"role"`
	Department string             `db:"department"`
	CreatedAt  pgtype.Timestamptz `db:"created_at"`
}

func (r employeeRow) employee() Employee {
	return Employee{
		ID:         core.PgUUIDToString(r.ID),
		Name:       r.Name,
		Email:      r.Email,
		Role:       r.Role,
		Department: r.Department,
		CreatedAt:  r.CreatedAt.Time,
	}
}

const employeeColumns = `id, name, email, password, role, department, created_at`

func (d *Directory) Login(ctx context.Context, email, password string) (Employee, error) {
	rows, err := d.db.Query(ctx, `SELECT `+employeeColumns+` FROM employee WHERE email = $1`, normalizeEmail(email))
	if err != nil {
		return Employee{}, fmt.Errorf("query employee: %w", err)
	}
	r, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[employeeRow])
	if errors.Is(err, pgx.ErrNoRows) {
		checkPassword(nil, password)
		return Employee{}, newAuthError(ErrInvalidCredentials)
	}
	if err != nil {
		return Employee{}, fmt.Errorf("scan employee: %w", err)
	}

	if !checkPassword([]byte(r.Password), password) {
		return Employee{}, newAuthError(ErrInvalidCredentials)
	}
	return r.employee(), nil
}

func (d *Directory) Register(ctx context.Context, req RegisterRequest) (Employee, error) {
	req, err := checkRegistration(req)
	if err != nil {
		return Employee{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), d.cost)
	if err != nil {
		return Employee{}, fmt.Errorf("hash password: %w", err)
	}

	rows, err := d.db.Query(ctx, `
		INSERT INTO employee (name, email, password, role, department)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+employeeColumns,
		req.Name, req.Email, string(hash), req.Role, req.Department,
	)
	if err != nil {
		return Employee{}, fmt.Errorf("insert employee: %w", err)
	}
	r, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[employeeRow])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Employee{}, newAuthError(ErrEmailExists)
		}
		return Employee{}, fmt.Errorf("insert employee: %w", err)
	}
	return r.employee(), nil
}

// MemoryDirectory keeps employees in process, for demo mode and tests.
type MemoryDirectory struct {
	cost int

	mu     sync.RWMutex
	byMail map[string]memoryEmployee
}

type memoryEmployee struct {
	Employee
	hash []byte
}

func NewMemoryDirectory(cost int) *MemoryDirectory {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &MemoryDirectory{cost: cost, byMail: make(map[string]memoryEmployee)}
}

func (d *MemoryDirectory) Login(_ context.Context, email, password string) (Employee, error) {
	d.mu.RLock()
	e, ok := d.byMail[normalizeEmail(email)]
	d.mu.RUnlock()

	if !ok {
		checkPassword(nil, password)
		return Employee{}, newAuthError(ErrInvalidCredentials)
	}
	if !checkPassword(e.hash, password) {
		return Employee{}, newAuthError(ErrInvalidCredentials)
	}
	return e.Employee, nil
}

func (d *MemoryDirectory) Register(_ context.Context, req RegisterRequest) (Employee, error) {
	req, err := checkRegistration(req)
	if err != nil {
		return Employee{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), d.cost)
	if err != nil {
		return Employee{}, fmt.Errorf("hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.byMail[req.Email]; taken {
		return Employee{}, newAuthError(ErrEmailExists)
	}

	e := Employee{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
		CreatedAt:  time.Now().UTC(),
	}
	d.byMail[req.Email] = memoryEmployee{Employee: e, hash: hash}
	return e, nil
}
