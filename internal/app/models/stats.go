package models

// Stats is the admin dashboard summary.
type Stats struct {
	Users         int64 `json:"users"`
	RoadsTotal    int64 `json:"roads_total"`
	RoadsPending  int64 `json:"roads_pending"`
	RoadsApproved int64 `json:"roads_approved"`
	RoadsRejected int64 `json:"roads_rejected"`
	POIsTotal     int64 `json:"pois_total"`
	POIsPending   int64 `json:"pois_pending"`
	POIsApproved  int64 `json:"pois_approved"`
	POIsRejected  int64 `json:"pois_rejected"`
	TotalCoins    int64 `json:"total_coins"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
