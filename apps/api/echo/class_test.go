package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/class"
	"github.com/trezcool/masomo-admin/core/resource"
	emailsvc "github.com/trezcool/masomo-admin/services/email"
	inmemdb "github.com/trezcool/masomo-admin/storage/database/inmem"
	testutil "github.com/trezcool/masomo-admin/tests"
)

// slowClasses never answers a detail fetch before the request deadline.
type slowClasses struct {
	class.Repository
}

func (slowClasses) FetchOne(ctx context.Context, _, _ string) (class.Class, error) {
	<-ctx.Done()
	return class.Class{}, ctx.Err()
}

func TestClassApi_retrieveTimeout(t *testing.T) {
	conf := core.NewTestConfig()
	db := inmemdb.Open()
	api := classApi{
		svc: class.NewService(
			slowClasses{inmemdb.NewClassRepository(db)}, inmemdb.NewSubjectRepository(db), inmemdb.NewUserRepository(db),
			inmemdb.NewDepartmentRepository(db), emailsvc.NewService(conf, testutil.NewLogger()), resource.Default(), conf,
		),
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/classes/1", nil).WithContext(reqCtx)
	rec := httptest.NewRecorder()
	ctx := echo.New().NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("1")

	require.NoError(t, api.retrieve(ctx))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)

	var detail class.Detail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, class.DetailLoading, detail.State)
	assert.Equal(t, "Loading class details...", detail.Message)
}
