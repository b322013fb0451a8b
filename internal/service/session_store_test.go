package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"dailydose/internal/domain"
	"dailydose/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSessionStore_SaveRefreshesTTL(t *testing.T) {
	cacheClient := new(MockCache)
	store := NewSessionStore(cacheClient, 30*time.Minute)

	session := threeCardSession(util.NewULID())
	cacheClient.On("Set", mock.Anything, sessionKey(session.ID), mock.AnythingOfType("string"), 30*time.Minute).
		Return(nil)

	err := store.Save(context.Background(), session)

	assert.NoError(t, err)
	cacheClient.AssertExpectations(t)
}

func TestSessionStore_GetMissIsSessionNotFound(t *testing.T) {
	cacheClient := new(MockCache)
	store := NewSessionStore(cacheClient, time.Hour)

	sessionID := util.NewULID()
	cacheClient.On("Get", mock.Anything, sessionKey(sessionID)).
		Return("", domain.ErrCacheMiss)

	_, err := store.Get(context.Background(), sessionID)

	assert.Error(t, err)
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeSessionNotFound, domainErr.Code)
}

func TestSessionStore_GetRoundTrip(t *testing.T) {
	cacheClient := new(MockCache)
	store := NewSessionStore(cacheClient, time.Hour)

	session := threeCardSession(util.NewULID())
	_, err := session.Answer(session.Steps[0].Key, "o1")
	assert.NoError(t, err)
	data, err := json.Marshal(session)
	assert.NoError(t, err)

	cacheClient.On("Get", mock.Anything, sessionKey(session.ID)).Return(string(data), nil)

	loaded, err := store.Get(context.Background(), session.ID)

	assert.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
	assert.Len(t, loaded.Steps, len(session.Steps))
	assert.True(t, loaded.Answered(session.Steps[0].Key))
}

func TestSessionStore_GetReinitializesNilResults(t *testing.T) {
	cacheClient := new(MockCache)
	store := NewSessionStore(cacheClient, time.Hour)

	sessionID := util.NewULID()
	cacheClient.On("Get", mock.Anything, sessionKey(sessionID)).
		Return(`{"id":"`+sessionID+`","subsection_id":"s","steps":[],"results":null}`, nil)

	loaded, err := store.Get(context.Background(), sessionID)

	assert.NoError(t, err)
	assert.NotNil(t, loaded.Results)
}

func TestSessionStore_DefaultTTL(t *testing.T) {
	cacheClient := new(MockCache)
	store := NewSessionStore(cacheClient, 0)

	session := threeCardSession(util.NewULID())
	cacheClient.On("Set", mock.Anything, sessionKey(session.ID), mock.AnythingOfType("string"), time.Hour).
		Return(nil)

	err := store.Save(context.Background(), session)

	assert.NoError(t, err)
	cacheClient.AssertExpectations(t)
}
