package database

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/user"
)

// psql builds queries with Postgres $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var userColumns = []string{
	"id", "name", "username", "email", "is_active", "roles",
	"password_hash", "created_at", "updated_at", "last_login",
}

// userOrderFields whitelists client-suppliable ordering fields.
var userOrderFields = map[string]bool{
	"name": true, "username": true, "email": true,
	"is_active": true, "created_at": true, "last_login": true,
}

type userRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Username     sql.NullString `db:"username"`
	Email        string         `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username.String,
		Email:        r.Email,
		IsActive:     r.IsActive,
		Roles:        r.Roles,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

type UserRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*UserRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *UserRepository {
	return &UserRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound.
func (repo *UserRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return user.ErrNotFound
	}
	return trapErr(err, msg)
}

func (repo *UserRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]string, 0, len(excludedUsers))
	for _, u := range excludedUsers {
		exclIDs = append(exclIDs, u.ID)
	}

	exists := func(field, value string) (bool, error) {
		if value == "" {
			return false, nil
		}
		qb := psql.Select("1").From("users").Where(sq.Eq{field: value})
		if len(exclIDs) > 0 {
			qb = qb.Where(sq.NotEq{"id": exclIDs})
		}
		query, args, err := qb.Limit(1).ToSql()
		if err != nil {
			return false, errors.Wrap(err, "building uniqueness query")
		}
		var one int
		if err = repo.exec.GetContext(ctx, &one, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, nil
			}
			return false, trapErr(err, "checking user uniqueness")
		}
		return true, nil
	}

	if taken, err := exists("username", username); err != nil {
		return err
	} else if taken {
		return user.ErrUsernameExists
	}
	if taken, err := exists("email", email); err != nil {
		return err
	} else if taken {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()

	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(
			usr.ID, usr.Name, nullStr(usr.Username), usr.Email, usr.IsActive,
			pq.StringArray(usr.Roles), usr.PasswordHash,
			usr.CreatedAt, usr.UpdatedAt, nullTime(usr.LastLogin),
		).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building user insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return user.User{}, trapErr(err, "inserting user")
	}
	return usr, nil
}

func (repo *UserRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	return repo.FilterUsers(ctx, user.QueryFilter{}, nil)
}

func (repo *UserRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building user query")
	}
	var row userRow
	if err = repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by ID")
	}
	return row.toDomain(), nil
}

func (repo *UserRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").
		Where(sq.Or{sq.Eq{"username": username}, sq.Eq{"email": username}}).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building user query")
	}
	var row userRow
	if err = repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by username or email")
	}
	return row.toDomain(), nil
}

func (repo *UserRepository) FilterUsers(ctx context.Context, filter user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	qb := psql.Select(userColumns...).From("users")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		qb = qb.Where(sq.Or{
			sq.ILike{"name": like},
			sq.ILike{"username": like},
			sq.ILike{"email": like},
		})
	}
	if len(filter.Roles) > 0 {
		// match any role prefix; roles are hierarchical strings ("admin:", ...)
		rolePreds := make(sq.Or, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			rolePreds = append(rolePreds, sq.Expr(
				"EXISTS (SELECT 1 FROM unnest(roles) AS r WHERE r LIKE ?)", role+"%",
			))
		}
		qb = qb.Where(rolePreds)
	}
	if filter.IsActive != nil {
		qb = qb.Where(sq.Eq{"is_active": *filter.IsActive})
	}
	if !filter.CreatedFrom.IsZero() {
		qb = qb.Where(sq.GtOrEq{"created_at": filter.CreatedFrom})
	}
	if !filter.CreatedTo.IsZero() {
		qb = qb.Where(sq.LtOrEq{"created_at": filter.CreatedTo})
	}

	ordered := false
	for _, ord := range ordering {
		if userOrderFields[ord.Field] {
			qb = qb.OrderBy(ord.String())
			ordered = true
		}
	}
	if !ordered {
		qb = qb.OrderBy("created_at DESC")
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building user filter query")
	}
	var rows []userRow
	if err = repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, trapErr(err, "filtering users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toDomain())
	}
	return users, nil
}

func (repo *UserRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	qb := psql.Update("users").Where(sq.Eq{"id": usr.ID})

	if usr.Name != "" {
		qb = qb.Set("name", usr.Name)
	}
	if usr.Username != "" {
		qb = qb.Set("username", usr.Username)
	}
	if usr.Email != "" {
		qb = qb.Set("email", usr.Email)
	}
	if usr.Roles != nil {
		qb = qb.Set("roles", pq.StringArray(usr.Roles))
	}
	if usr.PasswordHash != nil {
		qb = qb.Set("password_hash", usr.PasswordHash)
	}
	if isActive != nil {
		qb = qb.Set("is_active", *isActive)
	}
	if !usr.LastLogin.IsZero() {
		qb = qb.Set("last_login", usr.LastLogin)
	}
	qb = qb.Set("updated_at", time.Now().UTC())

	query, args, err := qb.Suffix("RETURNING " + columnList(userColumns)).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building user update")
	}
	var row userRow
	if err = repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "updating user")
	}
	return row.toDomain(), nil
}

func (repo *UserRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Delete("users").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building user delete")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return trapErr(err, "deleting users")
	}
	return nil
}
