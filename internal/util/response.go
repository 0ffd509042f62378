package util

type Envelope map[string]any

func Success(data any) Envelope {
	return Envelope{"success": true, "data": data}
}

func SuccessMessage(message string, data any) Envelope {
	env := Envelope{"success": true, "message": message}
	if data != nil {
		env["data"] = data
	}
	return env
}

func Error(message string) Envelope {
	return Envelope{"success": false, "message": message}
}

// ErrorCode is an error envelope with a machine-readable code.
func ErrorCode(message, code string) Envelope {
	return Envelope{"success": false, "message": message, "code": code}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}
