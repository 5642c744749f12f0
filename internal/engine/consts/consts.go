// Copyright 2025 Verdict Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package consts

// 统一响应拦截器使用的 locals key
const (
	DETAIL    = "detail"
	OPERATION = "operation"
)

// staff roles
const (
	RoleSuperAdmin   = "super_admin"
	RoleAdmin        = "admin"
	RoleHRManager    = "hr_manager"
	RoleHRSpecialist = "hr_specialist"
	RoleInterviewer  = "interviewer"
	RoleViewer       = "viewer"
)

// CommitteeManageRoles 可管理委员会的角色
var CommitteeManageRoles = []string{RoleSuperAdmin, RoleAdmin, RoleHRManager, RoleHRSpecialist}

// CommitteeCancelRoles 可取消/删除委员会的角色
var CommitteeCancelRoles = []string{RoleSuperAdmin, RoleAdmin}
