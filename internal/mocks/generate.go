// Package mocks provides mock implementations for testing the tmt-web service.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockResolver := mocks.NewMockResolver(ctrl)
//	mockResolver.EXPECT().Test(gomock.Any(), gomock.Any()).Return(test, nil)
package mocks

// Generate mock for Resolver interface from internal/core package.
// This creates MockResolver with methods for all Resolver interface methods:
// Test, Plan
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=resolver_mock.go github.com/teemtee/tmt-web/internal/core Resolver
