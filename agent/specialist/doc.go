// Package specialist implements the leaf tier of the organization: channel
// managers and individual contributors that execute concrete work against
// external providers. Specialists have empty subordinate registries and never
// delegate; provider calls go through the retry and cache layers so transient
// outages degrade instead of failing the tree above.
package specialist
