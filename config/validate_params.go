package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid 用于参数验证错误。
type ErrInvalid string

func (e ErrInvalid) Error() string { return string(e) }

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate 先做结构体标签校验，再做跨字段校验。
func Validate(cfg AppConfig) error {
	if err := structValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return ErrInvalid(fmt.Sprintf("%s failed %q (value %v)", f.Namespace(), f.Tag(), f.Value()))
		}
		return err
	}
	return ValidateEngine(cfg.Engine)
}

// ValidateEngine 校验引擎参数之间的关系；热更新只校验这一段。
func ValidateEngine(e EngineConfig) error {
	if err := structValidator().Struct(e); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if e.MinPressure > 0 || e.MaxPressure < 0 {
		return ErrInvalid("engine: need minPressure <= 0 <= maxPressure")
	}
	if e.CalmPressure < e.MinPressure || e.CalmPressure > e.MaxPressure {
		return ErrInvalid("engine: calmPressure must lie within the pressure bounds")
	}
	if e.BaseVolume > e.HighVolume {
		return ErrInvalid("engine: baseVolume must be <= highVolume")
	}
	if e.HighPosition >= e.DumpPosition {
		return ErrInvalid("engine: highPosition must be < dumpPosition")
	}
	if e.DumpPosition > e.PositionLimit {
		return ErrInvalid("engine: dumpPosition must be <= positionLimit")
	}
	if e.MaxSideOrders*2 > e.MaxOpenOrders {
		return ErrInvalid("engine: 2*maxSideOrders must be <= maxOpenOrders")
	}
	if e.HighVolume*int64(e.MaxSideOrders)*2 > e.MaxActiveVolume {
		return ErrInvalid("engine: resting volume at full size exceeds maxActiveVolume")
	}
	return nil
}
