package dto

// Response is the envelope every endpoint returns:
// {success: bool, data?: ..., message?: string}.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func OKMessage(message string) Response {
	return Response{Success: true, Message: message}
}

func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
