package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pribylovaa/go-board/internal/config"
	"github.com/pribylovaa/go-board/internal/metrics"
	"github.com/pribylovaa/go-board/internal/storage"
	"github.com/pribylovaa/go-board/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		Env:    "local",
		DB:     config.DBConfig{Driver: config.DriverSQLite, URL: "file::memory:"},
		Limits: config.LimitsConfig{Default: 20, Max: 50},
	}
}

// newMockService собирает сервис поверх MockStorage с изолированным реестром метрик.
func newMockService(t *testing.T) (*Service, *mocks.MockStorage, *prometheus.Registry) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	reg := prometheus.NewRegistry()

	return New(st, testConfig(), metrics.New(reg)), st, reg
}

// requireCounter сверяет значение счётчика в реестре.
func requireCounter(t *testing.T, reg *prometheus.Registry, name, help, labels string, v int) {
	t.Helper()

	expected := fmt.Sprintf("# HELP %s %s\n# TYPE %s counter\n%s%s %d\n", name, help, name, name, labels, v)
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), name))
}

// passTx заставляет InTx вызывать fn с тем же моком.
func passTx(st *mocks.MockStorage) {
	st.EXPECT().InTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(storage.Storage) error) error {
			return fn(st)
		},
	).AnyTimes()
}

func TestPageRequest(t *testing.T) {
	t.Parallel()

	s := New(nil, testConfig(), nil)

	req, err := s.pageRequest(0, 0)
	require.NoError(t, err)
	require.Equal(t, 20, req.Size)

	req, err = s.pageRequest(3, 500)
	require.NoError(t, err)
	require.Equal(t, 3, req.Page)
	require.Equal(t, 50, req.Size)

	_, err = s.pageRequest(-1, 10)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.pageRequest(0, -5)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
