package http

type CheckoutRequest struct {
	RestaurantID uint64 `json:"restaurantId" binding:"required"`
	LocationID   uint64 `json:"locationId" binding:"required"`
	TotalPrice   int64  `json:"totalPrice" binding:"required,min=0"`
}

type CheckoutResponse struct {
	ID          uint64 `json:"id"`
	PaymentRef  string `json:"paymentRef"`
	CheckoutURL string `json:"checkoutUrl"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateEstimateRequest struct {
	Minutes *int `json:"minutes" binding:"required"`
}

type UpdateOffsetRequest struct {
	Minutes *int `json:"minutes" binding:"required"`
}

type CreateLocationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

type CreateStaffRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Role       string `json:"role" binding:"omitempty,oneof=staff manager"`
	LocationID uint64 `json:"locationId"`
}

type CreateMealRequest struct {
	Name  string `json:"name" binding:"required"`
	Price int64  `json:"price" binding:"required,min=0"`
}
