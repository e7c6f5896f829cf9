package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"
	"go-erp-docs/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) add(t *testing.T, username, password, role string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Role: role, IsActive: true}
	u.ID = uuid.New()
	if err := u.SetPassword(password); err != nil {
		t.Fatalf("hash: %v", err)
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, &document.NotFoundError{Entity: "user", ID: username}
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, &document.NotFoundError{Entity: "user", ID: id.String()}
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Create(user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return &document.NotFoundError{Entity: "user", ID: id.String()}
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	r.users[userID].Password = hashedPassword
	return nil
}

func (r *fakeUserRepo) FindAll() ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	r.users[userID].TokenVersion = version
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(userID uuid.UUID) error {
	now := time.Now()
	r.users[userID].LastLoginAt = &now
	return nil
}

func TestLogin_SingleSession(t *testing.T) {
	jwt.Init("test-secret", time.Hour)
	repo := newFakeUserRepo()
	admin := repo.add(t, "admin", "rahasia1", model.RoleAdmin)
	svc := NewAuthService(repo)

	if _, err := svc.Login("admin", "salah"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("nobody", "rahasia1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}

	first, err := svc.Login("admin", "rahasia1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(first.Privileges) != len(model.PrivilegesForRole(model.RoleAdmin)) {
		t.Errorf("unexpected privileges %v", first.Privileges)
	}
	if _, err := svc.ValidateToken(first.Token); err != nil {
		t.Fatalf("fresh token: %v", err)
	}

	second, err := svc.Login("admin", "rahasia1")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if _, err := svc.ValidateToken(first.Token); !errors.Is(err, ErrSessionReplaced) {
		t.Errorf("old token: expected ErrSessionReplaced, got %v", err)
	}

	if err := svc.Logout(admin.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.ValidateToken(second.Token); !errors.Is(err, ErrSessionReplaced) {
		t.Errorf("after logout: expected ErrSessionReplaced, got %v", err)
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	jwt.Init("test-secret", time.Hour)
	repo := newFakeUserRepo()
	u := repo.add(t, "budi", "rahasia1", model.RoleUser)
	u.IsActive = false
	svc := NewAuthService(repo)

	if _, err := svc.Login("budi", "rahasia1"); !errors.Is(err, ErrUserInactive) {
		t.Errorf("expected ErrUserInactive, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	u := repo.add(t, "budi", "rahasia1", model.RoleUser)
	svc := NewAuthService(repo)

	if err := svc.ChangePassword(u.ID, "salah", "baru123"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
	if err := svc.ChangePassword(u.ID, "rahasia1", "123"); !errors.Is(err, document.ErrValidation) {
		t.Errorf("short password: expected validation error, got %v", err)
	}
	if err := svc.ChangePassword(u.ID, "rahasia1", "baru123"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if !repo.users[u.ID].CheckPassword("baru123") {
		t.Error("new password not stored")
	}
}

func TestUserService(t *testing.T) {
	repo := newFakeUserRepo()
	admin := repo.add(t, "admin", "rahasia1", model.RoleAdmin)
	svc := NewUserService(repo)

	created, err := svc.CreateUser(&CreateUserRequest{Username: "sari", Password: "rahasia1", Role: model.RoleUser}, admin.ID.String())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CreatedBy != admin.ID.String() || !created.IsActive {
		t.Errorf("unexpected user %+v", created)
	}

	if _, err := svc.CreateUser(&CreateUserRequest{Username: "sari", Password: "rahasia1", Role: model.RoleUser}, ""); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("duplicate: expected ErrUsernameExists, got %v", err)
	}
	if _, err := svc.CreateUser(&CreateUserRequest{Username: "tono", Password: "rahasia1", Role: "owner"}, ""); !errors.Is(err, document.ErrValidation) {
		t.Errorf("bad role: expected validation error, got %v", err)
	}

	inactive := false
	updated, err := svc.UpdateUser(created.ID, &UpdateUserRequest{Username: "sari", Role: model.RoleAdmin, IsActive: &inactive}, admin.ID.String())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Role != model.RoleAdmin || updated.IsActive {
		t.Errorf("update not applied: %+v", updated)
	}
	if _, err := svc.UpdateUser(created.ID, &UpdateUserRequest{Username: "admin", Role: model.RoleUser}, ""); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("rename to taken: expected ErrUsernameExists, got %v", err)
	}

	if err := svc.DeleteUser(admin.ID, admin.ID.String()); !errors.Is(err, ErrCannotDeleteSelf) {
		t.Errorf("self delete: expected ErrCannotDeleteSelf, got %v", err)
	}
	if err := svc.DeleteUser(created.ID, admin.ID.String()); err != nil {
		t.Errorf("delete: %v", err)
	}
}

type fakeSettingRepo struct {
	values map[string]datatypes.JSON
}

func (r *fakeSettingRepo) FindAll() ([]model.Setting, error) {
	var out []model.Setting
	for k, v := range r.values {
		out = append(out, model.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (r *fakeSettingRepo) Upsert(key string, value datatypes.JSON) error {
	r.values[key] = value
	return nil
}

func (r *fakeSettingRepo) SeedDefaults() error { return nil }

func TestSettingService(t *testing.T) {
	repo := &fakeSettingRepo{values: map[string]datatypes.JSON{}}
	svc := NewSettingService(repo)

	if err := svc.Upsert(" phone ", json.RawMessage(`"021-1234"`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.Upsert("", json.RawMessage(`"x"`)); !errors.Is(err, document.ErrValidation) {
		t.Errorf("empty key: expected validation error, got %v", err)
	}
	if err := svc.Upsert("name", json.RawMessage(`{not json`)); !errors.Is(err, document.ErrValidation) {
		t.Errorf("bad JSON: expected validation error, got %v", err)
	}

	all, err := svc.GetAll()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(all["phone"]) != `"021-1234"` || len(all) != 1 {
		t.Errorf("unexpected settings %v", all)
	}
}
