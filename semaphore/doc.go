// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package semaphore provides a simple channel-based semaphore that optionally honors context semantics.

Deprecated: semaphore is no longer planned to be used by future WebPA/XMiDT services.

This package is frozen and no new functionality will be added.
*/
package semaphore
