package entities

// LinkedChannelPair mirrors every eligible message of the origin channel into
// the destination channel, independent of chat scopes.
type LinkedChannelPair struct {
	ID                   int64 `db:"id"`
	OriginChannelID      int64 `db:"origin_channel_id"`
	DestinationChannelID int64 `db:"destination_channel_id"`
}

// Clone returns a copy safe to hand out of the registry
func (p *LinkedChannelPair) Clone() *LinkedChannelPair {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
