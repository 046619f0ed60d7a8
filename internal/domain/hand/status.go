package hand

// NumPressureSensors is the tactile sensor count along one finger.
const NumPressureSensors = 9

// MotorStatus is the measured state of one actuator as reported by the driver.
type MotorStatus struct {
	// JointAngle is the calibrated joint angle in radians.
	JointAngle float64 `json:"joint_angle"`
	// RawAngle is the uncalibrated encoder angle in radians.
	RawAngle float64 `json:"raw_angle"`
	// Velocity is the measured angular velocity in rad/s.
	Velocity float64 `json:"velocity"`
	// Load is the normalized motor load.
	Load float64 `json:"load"`
	// Voltage is the bus voltage seen by the servo.
	Voltage float64 `json:"voltage"`
	// Temperature is the servo temperature in degrees Celsius.
	Temperature float64 `json:"temperature"`
	// ErrorState carries the servo's error register as reported.
	ErrorState string `json:"error_state"`
}

// FingerStatus is the tactile and proximal feedback of one finger.
type FingerStatus struct {
	// Proximal is the proximal joint angle in radians.
	Proximal float64 `json:"proximal"`
	// DistalApprox is the approximated distal joint angle in radians.
	DistalApprox float64 `json:"distal_approx"`
	// Pressure holds the raw readings of the finger's tactile sensors.
	Pressure [NumPressureSensors]float64 `json:"pressure"`
	// Contact flags which tactile sensors register contact.
	Contact [NumPressureSensors]bool `json:"contact"`
}

// Finger mirrors the sensor feedback of a gripping digit. It is written only
// when driver feedback arrives and is read-only everywhere else.
type Finger struct {
	// Status is the last feedback record received for this finger.
	Status FingerStatus
}
