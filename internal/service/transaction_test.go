package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/deppfellow/ledger/internal/database"
	"github.com/deppfellow/ledger/internal/errs"
	"github.com/deppfellow/ledger/internal/models"
	"github.com/deppfellow/ledger/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
)

var (
	insertRe = regexp.QuoteMeta("INSERT INTO dbo.transactions")
	selectRe = regexp.QuoteMeta("SELECT id, amount, description")
	whereRe  = regexp.QuoteMeta("WHERE id = $1::integer")
	deleteRe = regexp.QuoteMeta("DELETE FROM dbo.transactions")
)

type harness struct {
	store    *TransactionStore
	mock     pgxmock.PgxPoolIface
	attempts *atomic.Int32
	logs     *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}

	h := &harness{mock: mock, attempts: &atomic.Int32{}, logs: &bytes.Buffer{}}
	lazy := database.NewLazy(func(ctx context.Context) (database.Pool, error) {
		h.attempts.Add(1)
		return mock, nil
	})

	logger := zerolog.New(h.logs)
	h.store = NewServices(lazy, repository.NewRepositories(), &logger).Transactions

	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		h.store.Close()
	})
	return h
}

func payloadJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestCoffeeScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rows := func() *pgxmock.Rows {
		return pgxmock.NewRows([]string{"id", "amount", "description"})
	}

	h.mock.ExpectQuery(insertRe).
		WithArgs(12.50, "coffee").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(17)))
	h.mock.ExpectQuery(whereRe).
		WithArgs(int64(17)).
		WillReturnRows(rows().AddRow(int64(17), 12.50, "coffee"))
	h.mock.ExpectExec(deleteRe).
		WithArgs(int64(17)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	h.mock.ExpectQuery(whereRe).
		WithArgs(int64(17)).
		WillReturnRows(rows())

	created := h.store.Create(ctx, 12.50, "coffee")
	if !created.OK() {
		t.Fatalf("create failed: %v", created.Err)
	}
	if got := payloadJSON(t, created.Payload()); got != `{"insertId":17}` {
		t.Fatalf("create payload = %s", got)
	}

	found := h.store.FindByID(ctx, created.InsertID)
	want := []models.Transaction{{ID: 17, Amount: 12.50, Description: "coffee"}}
	if !found.OK() || len(found.Rows) != 1 || found.Rows[0] != want[0] {
		t.Fatalf("find = %+v", found)
	}
	if got := payloadJSON(t, found.Payload()); got != `[{"id":17,"amount":12.5,"description":"coffee"}]` {
		t.Fatalf("find payload = %s", got)
	}

	deleted := h.store.DeleteByID(ctx, created.InsertID)
	if got := payloadJSON(t, deleted.Payload()); got != `{"success":true}` {
		t.Fatalf("delete payload = %s", got)
	}

	again := h.store.FindByID(ctx, created.InsertID)
	if got := payloadJSON(t, again.Payload()); got != `[]` {
		t.Fatalf("find after delete payload = %s", got)
	}

	if h.attempts.Load() != 1 {
		t.Fatalf("connect attempts = %d, want 1", h.attempts.Load())
	}
	if !strings.Contains(h.logs.String(), `"message":"added transaction"`) {
		t.Fatalf("create was not logged: %s", h.logs.String())
	}
}

func TestDeleteAllThenListIsEmpty(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.mock.ExpectExec(deleteRe).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	h.mock.ExpectQuery(selectRe).
		WillReturnRows(pgxmock.NewRows([]string{"id", "amount", "description"}))

	res := h.store.DeleteAll(ctx)
	if !res.OK() || res.RowsAffected != 3 {
		t.Fatalf("delete all = %+v", res)
	}

	list := h.store.List(ctx)
	if !list.OK() {
		t.Fatalf("list failed: %v", list.Err)
	}
	if got := payloadJSON(t, list.Payload()); got != `[]` {
		t.Fatalf("list payload = %s", got)
	}
}

func TestUnreachableDatabase(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	var attempts atomic.Int32
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}

	lazy := database.NewLazy(func(ctx context.Context) (database.Pool, error) {
		attempts.Add(1)
		return nil, refused
	})
	store := NewTransactionStore(lazy, repository.NewTransactionRepository(), &logger)
	defer store.Close()
	ctx := context.Background()

	created := store.Create(ctx, 5, "x")
	if created.OK() {
		t.Fatal("create succeeded against an unreachable database")
	}
	if created.Err.Code != errs.CodeUnavailable {
		t.Fatalf("code = %s, want %s", created.Err.Code, errs.CodeUnavailable)
	}

	var p StatusPayload
	if err := json.Unmarshal([]byte(payloadJSON(t, created.Payload())), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Success || p.Error == "" {
		t.Fatalf("create payload = %+v", p)
	}

	list := store.List(ctx)
	if list.OK() {
		t.Fatal("list succeeded against an unreachable database")
	}
	if got := payloadJSON(t, list.Payload()); got != `[]` {
		t.Fatalf("list payload = %s", got)
	}

	found := store.FindByID(ctx, 1)
	if got := payloadJSON(t, found.Payload()); got != `[]` {
		t.Fatalf("find payload = %s", got)
	}

	for _, r := range []WriteResult{store.DeleteAll(ctx), store.DeleteByID(ctx, 1)} {
		if got := payloadJSON(t, r.Payload()); !strings.HasPrefix(got, `{"success":false`) {
			t.Fatalf("delete payload = %s", got)
		}
	}

	// Failures are not memoized: every call tried to connect again.
	if attempts.Load() != 5 {
		t.Fatalf("connect attempts = %d, want 5", attempts.Load())
	}
	for _, op := range []string{OpCreate, OpList, OpFindByID, OpDeleteAll, OpDeleteByID} {
		if !strings.Contains(logs.String(), `"operation":"`+op+`"`) {
			t.Errorf("failure of %s was not logged", op)
		}
	}
}

func TestQueryFailureDegrades(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	missing := &pgconn.PgError{Code: "42P01", Message: `relation "dbo.transactions" does not exist`}

	h.mock.ExpectQuery(selectRe).WillReturnError(missing)
	h.mock.ExpectQuery(insertRe).WithArgs(1.0, "a").WillReturnError(missing)

	list := h.store.List(ctx)
	if list.Rows == nil || len(list.Rows) != 0 {
		t.Fatalf("rows = %#v, want empty", list.Rows)
	}
	if list.Err == nil || list.Err.Code != errs.CodeUndefinedRelation {
		t.Fatalf("err = %v", list.Err)
	}

	created := h.store.Create(ctx, 1, "a")
	want := `{"success":false,"error":"relation \"dbo.transactions\" does not exist"}`
	if got := payloadJSON(t, created.Payload()); got != want {
		t.Fatalf("payload\nwant %s\ngot  %s", want, got)
	}
	if !errors.Is(created.Err, missing) {
		t.Fatal("driver error not reachable from the result")
	}
}

func TestConcurrentFirstUseConnectsOnce(t *testing.T) {
	h := newHarness(t)
	h.mock.MatchExpectationsInOrder(false)

	const callers = 20
	for i := 0; i < callers; i++ {
		h.mock.ExpectQuery(selectRe).
			WillReturnRows(pgxmock.NewRows([]string{"id", "amount", "description"}).AddRow(int64(1), 2.5, "bus"))
	}

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !h.store.List(context.Background()).OK() {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	if failures.Load() != 0 {
		t.Fatalf("%d list calls failed: %s", failures.Load(), h.logs.String())
	}
	if h.attempts.Load() != 1 {
		t.Fatalf("connect attempts = %d, want 1", h.attempts.Load())
	}
}
