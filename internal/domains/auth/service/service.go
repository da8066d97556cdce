package service

import (
	"context"
	"fmt"
	"stylebook/config"
	"stylebook/infras/jwt"
	"stylebook/infras/otel"
	"stylebook/internal/domains/auth/model/dto"
	staffModel "stylebook/internal/domains/staff/model"
	staffRepo "stylebook/internal/domains/staff/repository"
	"stylebook/shared"
	"stylebook/shared/constant"
	gDto "stylebook/shared/dto"
	"stylebook/shared/failure"
	"stylebook/shared/password"
	"stylebook/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Auth signs staff into the admin area. There is no public registration,
// accounts are created by the owner through the staff service.
type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, staffID string) error
}

type serviceImpl struct {
	staffRepo  staffRepo.Staff
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(staffRepo staffRepo.Staff, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		staffRepo:  staffRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	emailFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    staffModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    req.Email,
				Table:    staffModel.TableName,
			},
		},
	}

	staff, err := s.staffRepo.Get(ctx, emailFilter)
	if err != nil || staff.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.BadRequestFromString("invalid email or password") // nolint:wrapcheck
	}

	if err := password.Verify(req.Password, staff.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString("invalid email or password") // nolint:wrapcheck
	}

	if !staff.Active {
		return res, failure.BadRequestFromString("staff account is deactivated") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(staff.ID, staff.Email, staff.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	lastLogin := dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}
	updatedFields := shared.TransformFields(lastLogin, staff.ID)

	if err := s.staffRepo.Update(ctx, updatedFields, emailFilter); err != nil {
		log.Warn().Err(err).Str("staffID", staff.ID).Msg("failed to update last login")
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, staffID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(staffID, staffModel.FieldID, staffModel.TableName)

	staff, err := s.staffRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff account")

		return fmt.Errorf("failed to get staff account: %w", err)
	}

	if staff.ID == constant.Empty {
		return failure.NotFound("staff account not found") // nolint:wrapcheck
	}

	if err := password.Verify(req.CurrentPassword, staff.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatePassword := dto.UpdatePasswordRequest{Password: hashedPassword}
	updatedFields := shared.TransformFields(updatePassword, staffID)

	if err = s.staffRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
