package seeds

import (
	"context"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
	subDTO "eduquest_backend/internals/features/subscriptions/dto"
	subModel "eduquest_backend/internals/features/subscriptions/model"
	helper "eduquest_backend/internals/helpers"
)

// SeedPlansFromJSON inserts the plans in filePath whose name is not taken yet.
func SeedPlansFromJSON(ctx context.Context, db *gorm.DB, filePath, currency string) (int, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return 0, errors.Wrap(err, "read plans file")
	}
	var inputs []subDTO.CreatePlanRequest
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return 0, errors.Wrap(err, "decode plans file")
	}

	inserted := 0
	for _, in := range inputs {
		if fields := helper.ValidateStruct(in); fields != nil {
			configs.Log.Warn("plan skipped", zap.String("plan", in.PlanName), zap.Any("errors", fields))
			continue
		}
		var n int64
		if err := db.WithContext(ctx).Model(&subModel.SubscriptionPlanModel{}).
			Where("LOWER(plan_name) = ?", strings.ToLower(strings.TrimSpace(in.PlanName))).
			Count(&n).Error; err != nil {
			return inserted, err
		}
		if n > 0 {
			configs.Log.Info("plan exists, skipped", zap.String("plan", in.PlanName))
			continue
		}
		m := in.ToModel(currency)
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return inserted, errors.Wrapf(err, "insert plan %q", in.PlanName)
		}
		inserted++
	}
	return inserted, nil
}
