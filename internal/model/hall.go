package model

import "time"

// Hall represents a bookable wedding venue.  Halls are created and
// maintained by administrators and browsed by everyone.  The IsAvailable
// flag is a global on/off switch controlled by admins and is independent
// of date-based booking conflicts.
//
// Fields:
//  ID                – primary key identifier.
//  Name              – human readable hall name.
//  Description       – marketing description of the hall.
//  Capacity          – maximum number of guests (positive).
//  PricePerDayCents  – rental price per day in cents (positive).
//  Location          – address or area of the hall.
//  Amenities         – list of amenity labels (stored as JSON).
//  Images            – list of image URLs (stored as JSON).
//  IsAvailable       – global availability switch.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Hall struct {
    ID               uint64
    Name             string
    Description      string
    Capacity         uint32
    PricePerDayCents uint32
    Location         string
    Amenities        []string
    Images           []string
    IsAvailable      bool
    CreatedAt        time.Time
    UpdatedAt        time.Time
}

// FitsCapacity reports whether the requested guest count can be hosted by
// the hall.  A zero guest count is never valid.
func (h *Hall) FitsCapacity(guestCount uint32) bool {
    return guestCount > 0 && guestCount <= h.Capacity
}
