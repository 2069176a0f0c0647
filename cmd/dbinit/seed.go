package main

import (
	"context"
	"fmt"

	"github.com/6045054-web/CHENGHUI/internal/gateway"
	"github.com/6045054-web/CHENGHUI/internal/logger"
	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/6045054-web/CHENGHUI/internal/service"
)

const (
	seedProjectName     = "成汇默认项目"
	seedProjectLocation = "待补充"
	seedLeaderName      = "公司领导"
)

// seedBase writes the default project and a leader account. Existing rows are left alone.
func seedBase(ctx context.Context, store gateway.Store, projectID, username, password string) error {
	snap := store.FetchAll(ctx)

	hasProject := false
	for _, p := range snap.Projects {
		if p.ID == projectID {
			hasProject = true
			break
		}
	}
	if !hasProject {
		p := model.Project{ID: projectID, Name: seedProjectName, Location: seedProjectLocation, Status: model.ProjectInProgress}
		if err := store.SaveProject(ctx, p); err != nil {
			return fmt.Errorf("seed project: %w", err)
		}
		logger.Info("seeded project", "id", p.ID)
	}

	existing, err := store.FindUser(ctx, username)
	if err != nil {
		return fmt.Errorf("find leader: %w", err)
	}
	if existing != nil {
		logger.Info("leader exists, skipped", "username", username)
		return nil
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	u := model.User{
		ID:        "U-" + username,
		Name:      seedLeaderName,
		Username:  username,
		Password:  hash,
		Role:      model.RoleLeader,
		ProjectID: projectID,
	}
	if err := store.SaveUser(ctx, u); err != nil {
		return fmt.Errorf("seed leader: %w", err)
	}
	logger.Info("seeded leader", "username", username)
	return nil
}

// rehashPasswords replaces every plaintext password with its bcrypt hash. On the REST
// backend the row is re-read through a credential-matched query first so only rows whose
// stored value really is the plaintext get rewritten.
func rehashPasswords(ctx context.Context, store gateway.Store, rest *gateway.Rest) (int, error) {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	n := 0
	for _, u := range users {
		if u.Password == "" || service.IsHashed(u.Password) {
			continue
		}
		if rest != nil && rest.LegacyLogin(ctx, u.Username, u.Password) == nil {
			logger.Warn("rehash skipped, legacy credentials not confirmed", "uid", u.ID)
			continue
		}
		hash, err := service.HashPassword(u.Password)
		if err != nil {
			return n, err
		}
		u.Password = hash
		if err := store.SaveUser(ctx, u); err != nil {
			return n, fmt.Errorf("save user %s: %w", u.ID, err)
		}
		n++
	}
	return n, nil
}
