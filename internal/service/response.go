package service

import "net/http"

// ServiceResponse is the envelope every API response is wrapped in
type ServiceResponse struct {
	Success        bool        `json:"success"`
	Message        string      `json:"message"`
	ResponseObject interface{} `json:"responseObject"`
	StatusCode     int         `json:"statusCode"`
}

// Success wraps a successful result
func Success(message string, obj interface{}, statusCode int) *ServiceResponse {
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	return &ServiceResponse{Success: true, Message: message, ResponseObject: obj, StatusCode: statusCode}
}

// Failure wraps an error result
func Failure(message string, obj interface{}, statusCode int) *ServiceResponse {
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	return &ServiceResponse{Success: false, Message: message, ResponseObject: obj, StatusCode: statusCode}
}
