// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xviper provides customizations on use of viper for configuration loading.

Deprecated: xviper is no longer planned to be used by future WebPA/XMiDT services.

This package is frozen and no new functionality will be added.
*/
package xviper
