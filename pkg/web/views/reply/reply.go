package reply

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/rockin/pkg/common"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/scienceol/rockin/pkg/core/sample/identity"
)

type conflictData struct {
	CounterField      string `json:"counter_field"`
	SuggestedSequence int64  `json:"suggested_sequence"`
}

// Err replies a registration rejection. Conflicts carry the suggested counter, identity failures stay generic.
func Err(ctx *gin.Context, err error) {
	var conflict *sample.ConflictError
	if errors.As(err, &conflict) && conflict.CounterField != "" {
		common.ReplyErrWithData(ctx, err, &conflictData{
			CounterField:      conflict.CounterField,
			SuggestedSequence: conflict.Suggested,
		})
		return
	}
	var idErr *identity.Error
	if errors.As(err, &idErr) {
		common.ReplyErr(ctx, code.SampleIdentityErr)
		return
	}
	common.ReplyErr(ctx, err)
}
