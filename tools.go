//go:build tools

package tools

// Mocks in pkg/device/mocks and pkg/interaction/mocks are generated by
// mockery, used as an installed binary. Run: mockery (from the module root,
// config in .mockery.yaml) after changing device.Device or
// interaction.Socket.
