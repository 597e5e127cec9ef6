// Package device defines the capability a probe driver offers to the protocol
// layer: execute one command value and return one response value or a fault.
//
// Drivers exist per sensor family (see pkg/sensor/ph, ec, rtd). The protocol
// machinery in pkg/interaction only depends on the Device interface.
//
// # Faults
//
// Failures are classified by ErrorKind:
//
//   - SensorTrouble: bus I/O failed or the chip returned garbage
//   - DevicePending: the chip is still processing the previous command
//   - DeviceError: the chip rejected the command
//   - DeviceNoData: the chip had nothing to return
//   - Unsupported: the driver cannot execute this command
//
// Pending and error states are returned to the caller; this layer never
// retries on its own.
package device
