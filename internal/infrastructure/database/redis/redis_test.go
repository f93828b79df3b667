package redis

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/MatForge/internal/domain/material"
	pkgerrors "github.com/turtacn/MatForge/pkg/errors"
)

type PreferenceStoreTestSuite struct {
	suite.Suite
	mock   redismock.ClientMock
	client *Client
	store  *PreferenceStore
}

func (s *PreferenceStoreTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.client = NewClientWithRedis(db, "matforge:", nil)
	s.store = NewPreferenceStore(s.client, nil)
}

func (s *PreferenceStoreTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PreferenceStoreTestSuite) TestLoad_Defaults() {
	s.mock.ExpectHGetAll("matforge:prefs:alice").SetVal(map[string]string{})

	p, err := s.store.Load(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal(material.DefaultPreferences(), p)
}

func (s *PreferenceStoreTestSuite) TestLoad_Stored() {
	s.mock.ExpectHGetAll("matforge:prefs:alice").SetVal(map[string]string{
		"language":     "ar",
		"show_landing": "false",
	})

	p, err := s.store.Load(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal(material.LanguageArabic, p.Language)
	s.False(p.ShowLanding)
	s.True(p.RTL)
}

func (s *PreferenceStoreTestSuite) TestLoad_CorruptValuesFallBack() {
	s.mock.ExpectHGetAll("matforge:prefs:bob").SetVal(map[string]string{
		"language":     "klingon",
		"show_landing": "maybe",
	})

	p, err := s.store.Load(context.Background(), "bob")
	s.Require().NoError(err)
	s.Equal(material.DefaultPreferences(), p)
}

func (s *PreferenceStoreTestSuite) TestLoad_RedisError() {
	s.mock.ExpectHGetAll("matforge:prefs:alice").SetErr(stderrors.New("READONLY"))

	_, err := s.store.Load(context.Background(), "alice")
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *PreferenceStoreTestSuite) TestSave() {
	s.mock.ExpectHSet("matforge:prefs:alice", "language", "sv", "show_landing", "false").SetVal(2)

	err := s.store.Save(context.Background(), "alice", material.Preferences{Language: "SV", ShowLanding: false})
	s.NoError(err)
}

func (s *PreferenceStoreTestSuite) TestSave_InvalidLanguage() {
	err := s.store.Save(context.Background(), "alice", material.Preferences{Language: "de"})
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodePreferenceInvalid))
}

func (s *PreferenceStoreTestSuite) TestInvalidUser() {
	_, err := s.store.Load(context.Background(), "")
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodePreferenceInvalid))
	err = s.store.Save(context.Background(), "a:b", material.DefaultPreferences())
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodePreferenceInvalid))
}

func TestPreferenceStoreTestSuite(t *testing.T) {
	suite.Run(t, new(PreferenceStoreTestSuite))
}

func TestClient_PingAndClose(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewClientWithRedis(db, "", nil)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, client.HealthCheck(context.Background()))

	mock.ExpectPing().SetErr(stderrors.New("dial tcp: refused"))
	assert.True(t, pkgerrors.IsCode(client.Ping(context.Background()), pkgerrors.ErrCodeCacheError))

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	assert.Equal(t, ErrClientClosed, client.Ping(context.Background()))

	_, err := NewPreferenceStore(client, nil).Load(context.Background(), "alice")
	assert.Equal(t, ErrClientClosed, err)
}

func TestClient_Key(t *testing.T) {
	db, _ := redismock.NewClientMock()
	assert.Equal(t, "mf:prefs:u1", NewClientWithRedis(db, "mf:", nil).Key("prefs", "u1"))
	assert.Equal(t, "lock:reindex", NewClientWithRedis(db, "", nil).Key("lock", "reindex"))
}

func TestMutex(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewClientWithRedis(db, "mf:", nil)
	m := NewMutex(client, "reindex", time.Minute)

	mock.ExpectSetNX("mf:lock:reindex", m.value, time.Minute).SetVal(true)
	ok, err := m.TryLock(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	other := NewMutex(client, "reindex", time.Minute)
	mock.ExpectSetNX("mf:lock:reindex", other.value, time.Minute).SetVal(false)
	ok, err = other.TryLock(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectEvalSha(mutexUnlockScript.Hash(), []string{"mf:lock:reindex"}, m.value).SetVal(int64(1))
	assert.NoError(t, m.Unlock(context.Background()))

	mock.ExpectEvalSha(mutexUnlockScript.Hash(), []string{"mf:lock:reindex"}, other.value).SetVal(int64(0))
	assert.Equal(t, ErrLockNotHeld, other.Unlock(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}
