package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/teemtee/tmt-web/internal/core"
	"github.com/teemtee/tmt-web/internal/domain/model"
	"github.com/teemtee/tmt-web/internal/format"
	"github.com/teemtee/tmt-web/internal/mocks"
)

func TestMetadataServiceRequiresResolver(t *testing.T) {
	assert.Panics(t, func() {
		NewMetadataService(MetadataServiceOptions{})
	})
}

func TestMetadataServiceResolvesTest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	resolver.EXPECT().
		Test(gomock.Any(), core.ObjectRef{
			URL:  "https://github.com/teemtee/tmt",
			Name: "/tests/core/smoke",
			Ref:  "main",
		}).
		Return(&model.TestMetadata{Name: "/tests/core/smoke", Framework: "shell"}, nil)

	svc := NewMetadataService(MetadataServiceOptions{Resolver: resolver})

	out, err := svc.ProcessRequest(context.Background(), Request{
		TestURL:  "https://github.com/teemtee/tmt",
		TestName: "/tests/core/smoke",
		TestRef:  "main",
		Format:   format.JSON,
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "/tests/core/smoke", decoded["name"])
	assert.Equal(t, "shell", decoded["framework"])
}

func TestMetadataServiceResolvesPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	resolver.EXPECT().
		Plan(gomock.Any(), gomock.Any()).
		Return(&model.PlanMetadata{Name: "/plans/basic"}, nil)

	svc := NewMetadataService(MetadataServiceOptions{Resolver: resolver})

	out, err := svc.ProcessRequest(context.Background(), Request{
		PlanURL:  "https://github.com/teemtee/tmt",
		PlanName: "/plans/basic",
		Format:   format.YAML,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "name: /plans/basic")
}

func TestMetadataServiceResolvesTestPlanPair(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	resolver.EXPECT().
		Test(gomock.Any(), gomock.Any()).
		Return(&model.TestMetadata{Name: "/tests/core/smoke"}, nil)
	resolver.EXPECT().
		Plan(gomock.Any(), gomock.Any()).
		Return(&model.PlanMetadata{Name: "/plans/basic"}, nil)

	svc := NewMetadataService(MetadataServiceOptions{Resolver: resolver})

	out, err := svc.ProcessRequest(context.Background(), Request{
		TestURL:  "https://github.com/teemtee/tmt",
		TestName: "/tests/core/smoke",
		PlanURL:  "https://github.com/teemtee/tmt",
		PlanName: "/plans/basic",
		Format:   format.JSON,
	})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "test")
	assert.Contains(t, decoded, "plan")
}

func TestMetadataServiceStoresRawWithoutFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	resolver.EXPECT().
		Test(gomock.Any(), gomock.Any()).
		Return(&model.TestMetadata{Name: "/tests/core/smoke"}, nil)

	svc := NewMetadataService(MetadataServiceOptions{Resolver: resolver})

	out, err := svc.ProcessRequest(context.Background(), Request{
		TestURL:  "https://github.com/teemtee/tmt",
		TestName: "/tests/core/smoke",
	})
	require.NoError(t, err)

	obj, err := format.Deserialize(out)
	require.NoError(t, err)
	test, ok := obj.(*model.TestMetadata)
	require.True(t, ok)
	assert.Equal(t, "/tests/core/smoke", test.Name)
}

func TestMetadataServiceParameterValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{
			name:    "test name without url",
			req:     Request{TestName: "/tests/core/smoke"},
			wantErr: "Missing required test parameters",
		},
		{
			name:    "plan name without url",
			req:     Request{PlanName: "/plans/basic"},
			wantErr: "Missing required plan parameters",
		},
		{
			name: "pair missing test url",
			req: Request{
				TestName: "/tests/core/smoke",
				PlanURL:  "https://github.com/teemtee/tmt",
				PlanName: "/plans/basic",
			},
			wantErr: "Missing required test/plan parameters",
		},
		{
			name: "pair missing plan url",
			req: Request{
				TestURL:  "https://github.com/teemtee/tmt",
				TestName: "/tests/core/smoke",
				PlanName: "/plans/basic",
			},
			wantErr: "Missing required test/plan parameters",
		},
		{
			name:    "nothing requested",
			req:     Request{},
			wantErr: "Invalid combination of test and plan parameters",
		},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := NewMetadataService(MetadataServiceOptions{Resolver: mocks.NewMockResolver(ctrl)})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ProcessRequest(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestMetadataServicePropagatesResolverError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	resolver.EXPECT().
		Test(gomock.Any(), gomock.Any()).
		Return(nil, core.NotFoundf("Test '/tests/missing' not found"))

	svc := NewMetadataService(MetadataServiceOptions{Resolver: resolver})

	_, err := svc.ProcessRequest(context.Background(), Request{
		TestURL:  "https://github.com/teemtee/tmt",
		TestName: "/tests/missing",
		Format:   format.JSON,
	})
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}
