package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stylebook/config"
	"stylebook/infras/jwt"
	jwtMocks "stylebook/infras/jwt/mocks"
	"stylebook/infras/otel/mocks"
	"stylebook/internal/domains/auth/model/dto"
	"stylebook/internal/domains/auth/service"
	staffMocks "stylebook/internal/domains/staff/mocks"
	staffModel "stylebook/internal/domains/staff/model"
	"stylebook/shared/constant"
	"stylebook/shared/failure"
	"stylebook/shared/password"
)

func newAuthService(t *testing.T, ctrl *gomock.Controller) (service.Auth, *staffMocks.MockStaff, *jwtMocks.MockJWT) {
	t.Helper()

	mockStaffRepo := staffMocks.NewMockStaff(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	cfg := &config.Config{}

	return service.New(mockStaffRepo, cfg, mocks.NewOtel(), mockJWT), mockStaffRepo, mockJWT
}

func activeStaff(t *testing.T) staffModel.Staff {
	t.Helper()

	hashed, err := password.Hash("correct-password")
	assert.NoError(t, err)

	return staffModel.Staff{
		ID:       "staff-id",
		Email:    "owner@stylebook.test",
		Password: hashed,
		Role:     constant.RoleOwner,
		FullName: "Shop Owner",
		Active:   true,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStaffRepo, mockJWT := newAuthService(t, ctrl)

	tokenPair := &jwt.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    900,
	}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "owner@stylebook.test", Password: "correct-password"},
			setupMock: func() {
				mockStaffRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeStaff(t), nil)

				mockJWT.EXPECT().
					GenerateTokenPair("staff-id", "owner@stylebook.test", constant.RoleOwner).
					Return(tokenPair, nil)

				mockStaffRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@stylebook.test", Password: "whatever"},
			setupMock: func() {
				mockStaffRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(staffModel.Staff{}, nil)
			},
			wantErr: true,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "owner@stylebook.test", Password: "wrong-password"},
			setupMock: func() {
				mockStaffRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeStaff(t), nil)
			},
			wantErr: true,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "owner@stylebook.test", Password: "correct-password"},
			setupMock: func() {
				staff := activeStaff(t)
				staff.Active = false

				mockStaffRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(staff, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, 400, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "access-token", res.AccessToken)
			assert.Equal(t, "refresh-token", res.RefreshToken)
		})
	}
}

func TestAuthService_LoginSucceedsWhenLastLoginUpdateFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStaffRepo, mockJWT := newAuthService(t, ctrl)

	mockStaffRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(activeStaff(t), nil)

	mockJWT.EXPECT().
		GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&jwt.TokenPair{AccessToken: "access-token"}, nil)

	mockStaffRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("database error"))

	res, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "owner@stylebook.test",
		Password: "correct-password",
	})

	assert.NoError(t, err)
	assert.Equal(t, "access-token", res.AccessToken)
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, mockJWT := newAuthService(t, ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful refresh",
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens("valid-refresh-token").
					Return(&jwt.TokenPair{AccessToken: "new-access-token"}, nil)
			},
		},
		{
			name: "invalid refresh token",
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens("valid-refresh-token").
					Return(nil, errors.New("token expired"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "valid-refresh-token"})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, 401, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "new-access-token", res.AccessToken)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStaffRepo, _ := newAuthService(t, ctrl)

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful change",
			req:  dto.ChangePasswordRequest{CurrentPassword: "correct-password", NewPassword: "new-password-123"},
			setupMock: func() {
				mockStaffRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeStaff(t), nil)

				mockStaffRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "staff not found",
			req:  dto.ChangePasswordRequest{CurrentPassword: "correct-password", NewPassword: "new-password-123"},
			setupMock: func() {
				mockStaffRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(staffModel.Staff{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "wrong-password", NewPassword: "new-password-123"},
			setupMock: func() {
				mockStaffRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeStaff(t), nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.ChangePassword(context.Background(), tt.req, "staff-id")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}
