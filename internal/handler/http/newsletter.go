package http

import (
	"net/http"

	"github.com/mhasan0505/sanslibyzebin/pkg/httputil"
	"github.com/mhasan0505/sanslibyzebin/pkg/validator"
)

// Newsletter messages shown in the footer form.
const (
	MsgSubscribed   = "Thank you for subscribing!"
	MsgInvalidEmail = "Please enter a valid email address"
)

// SubscribeRequest is the JSON request body of the newsletter form.
type SubscribeRequest struct {
	Email string `json:"email"`
}

type subscribeResponse struct {
	Subscribed bool   `json:"subscribed"`
	Message    string `json:"message"`
}

// Subscribe handles POST /api/v1/newsletter. The address is validated and
// acknowledged; nothing is stored or sent.
func Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := validator.Var("email", req.Email, "required,email"); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_EMAIL",
				Message: MsgInvalidEmail,
				Fields:  map[string]string{"email": MsgInvalidEmail},
			},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: subscribeResponse{Subscribed: true, Message: MsgSubscribed},
	})
}
